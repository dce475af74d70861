package services

import (
	"fmt"
	"log"
	"time"
)

// SendEmail publishes an email event to Kafka for async processing.
// The email is NOT sent directly - the Kafka consumer handles delivery.
// When Kafka is disabled the message falls through to direct SMTP.
func SendEmail(to, subject, body string) error {
	log.Printf("Publishing email event to Kafka. Recipient: %s, Subject: %s", to, subject)

	emailPayload := map[string]interface{}{
		"event":     "email.send",
		"recipient": to,
		"subject":   subject,
		"body":      body,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if !IsConnected() {
		// Kafka unavailable: deliver synchronously so auth flows still work
		return SendEmailDirect(to, subject, body)
	}

	if err := Publish("emails", fmt.Sprintf("email-%s", to), emailPayload); err != nil {
		log.Printf("Failed to publish email event to Kafka: %v", err)
		return fmt.Errorf("failed to queue email: %w", err)
	}

	log.Printf("Email event queued to Kafka: %s", to)
	return nil
}

// SendPasswordResetEmail emails a reset token to the user. The token is
// valid for one hour.
func SendPasswordResetEmail(email, resetToken string) error {
	emailBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1565C0; color: white; padding: 20px; text-align: center; border-radius: 5px; }
        .content { background-color: #f9f9f9; padding: 20px; margin-top: 20px; border-radius: 5px; }
        .token { background-color: #e3f2fd; padding: 15px; margin: 15px 0; border-left: 4px solid #1565C0; font-family: monospace; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Password Reset Request</h2>
        </div>
        <div class="content">
            <p>You have requested to reset your password.</p>
            <p>Please use the following token to reset your password:</p>
            <div class="token">%s</div>
            <p>This token will expire in 1 hour.</p>
            <p>If you did not request this reset, please ignore this email.</p>
        </div>
    </div>
</body>
</html>`, resetToken)

	return SendEmail(email, "Password Reset Request", emailBody)
}

// SendWelcomeEmail greets a newly registered user
func SendWelcomeEmail(username, email string) error {
	emailBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4CAF50; color: white; padding: 20px; text-align: center; border-radius: 5px; }
        .content { background-color: #f9f9f9; padding: 20px; margin-top: 20px; border-radius: 5px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Welcome to JOSAA Predictor</h2>
        </div>
        <div class="content">
            <p>Dear %s,</p>
            <p>Your account has been created successfully.</p>
            <p>Log in to generate your personalized college preference list with
            admission probability predictions based on historical JOSAA cutoff data.</p>
        </div>
    </div>
</body>
</html>`, username)

	return SendEmail(email, "Welcome to JOSAA Predictor", emailBody)
}
