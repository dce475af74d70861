package utils

// Seat categories used by JOSAA counselling
const (
	CategoryOpen    = "OPEN"
	CategoryOpenPwD = "OPEN (PwD)"
	CategoryEWS     = "EWS"
	CategoryEWSPwD  = "EWS (PwD)"
	CategoryOBC     = "OBC-NCL"
	CategoryOBCPwD  = "OBC-NCL (PwD)"
	CategorySC      = "SC"
	CategorySCPwD   = "SC (PwD)"
	CategoryST      = "ST"
	CategorySTPwD   = "ST (PwD)"
)

// College type filters
const (
	CollegeTypeAll  = "ALL"
	CollegeTypeIIT  = "IIT"
	CollegeTypeNIT  = "NIT"
	CollegeTypeIIIT = "IIIT"
	CollegeTypeGFTI = "GFTI"
)

// BranchAll matches every academic program in filters
const BranchAll = "All"

// ValidCategories is the accepted set for prediction and upload requests
var ValidCategories = map[string]bool{
	CategoryOpen:    true,
	CategoryOpenPwD: true,
	CategoryEWS:     true,
	CategoryEWSPwD:  true,
	CategoryOBC:     true,
	CategoryOBCPwD:  true,
	CategorySC:      true,
	CategorySCPwD:   true,
	CategoryST:      true,
	CategorySTPwD:   true,
}
