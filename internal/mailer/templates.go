package mailer

import (
	"bytes"
	"html/template"
	"time"
)

// welcomeTemplate is the launch-notification confirmation body. The recipient
// name is user-supplied, so it goes through html/template escaping.
var welcomeTemplate = template.Must(template.New("welcome").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #7F6AF7;">Welcome to BookAdZone!</h2>
  <p>Hello {{.Name}},</p>
  <p>Thank you for registering to receive updates about our launch. We're thrilled to have you on board!</p>
  <p>You'll be among the first to know when we launch our platform.</p>
  <div style="margin: 20px 0; padding: 15px; background-color: #f8f9fa; border-radius: 5px;">
    <p style="margin: 0; color: #666;">What's next?</p>
    <ul style="color: #666;">
      <li>You'll receive exclusive updates about our launch</li>
      <li>Get early access to special features</li>
      <li>Be the first to know about promotional offers</li>
    </ul>
  </div>
  <p>Stay tuned for more updates!</p>
  <p style="color: #666; font-size: 14px; margin-top: 30px;">Best regards,<br>The BookAdZone Team</p>
  <p style="color: #666; font-size: 12px;">&copy; {{.Year}} BookAdZone. All rights reserved.</p>
</div>`))

var subscriptionTemplate = template.Must(template.New("subscription").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background-color: #0D0D0D; color: #FFFFFF; padding: 30px; border-radius: 10px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #7F6AF7; margin-bottom: 10px;">Thanks for Subscribing!</h1>
    <p style="color: #98A9B8; font-size: 16px; line-height: 1.5;">
      Welcome to the BookAdZone community! You're now part of our growing network of outdoor advertising enthusiasts.
    </p>
  </div>
  <div style="background-color: #1A1A1A; padding: 20px; border-radius: 8px; margin-bottom: 25px;">
    <h2 style="color: #FFFFFF; font-size: 18px; margin-bottom: 15px;">What to Expect:</h2>
    <ul style="color: #98A9B8; list-style: none; padding: 0;">
      <li style="margin-bottom: 10px;">Exclusive advertising opportunities</li>
      <li style="margin-bottom: 10px;">Industry insights and trends</li>
      <li style="margin-bottom: 10px;">Tips for effective outdoor advertising</li>
      <li>Special subscriber-only offers</li>
    </ul>
  </div>
  <div style="background-color: #7F6AF7; padding: 20px; border-radius: 8px; text-align: center; margin-bottom: 25px;">
    <p style="color: #FFFFFF; font-size: 16px; margin: 0;">
      Stay tuned for our platform launch - you'll be among the first to know!
    </p>
  </div>
  <div style="margin-top: 30px; text-align: center; color: #98A9B8; font-size: 12px;">
    <p>BookAdZone - Revolutionizing Outdoor Advertising</p>
    <p style="margin-top: 5px;">&copy; {{.Year}} BookAdZone. All rights reserved.</p>
  </div>
</div>`))

// RenderWelcome produces the welcome email body for the given display name.
func RenderWelcome(name string) (string, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, struct {
		Name string
		Year int
	}{Name: name, Year: time.Now().Year()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderSubscription produces the newsletter confirmation body.
func RenderSubscription() (string, error) {
	var buf bytes.Buffer
	err := subscriptionTemplate.Execute(&buf, struct{ Year int }{Year: time.Now().Year()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
