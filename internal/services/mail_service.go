// services/mail_service.go
package services

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"wayfarer/internal/models/db_models"
)

type MailServiceInterface interface {
	SendAlertEmail(to, name, destination string, alerts []db_models.TripAlert) error
	SendBookingConfirmation(to, name, destination string, trip *db_models.Trip, bookings []db_models.Booking) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host       string // e.g. "smtp.gmail.com"
	Port       int    // e.g. 587 (STARTTLS) or 465 (SMTPS)
	Username   string
	Password   string
	From       string // envelope from, e.g. "alerts@wayfarer.app"
	FromName   string // display name
	UseSSL     bool   // true for SMTPS 465, false for STARTTLS 587
	RequireTLS bool   // if true, fail if STARTTLS not available

	AppName string // used in subject lines and footer
}

func (c SMTPConfig) configured() bool {
	return c.Host != "" && c.From != ""
}

type smtpMailService struct {
	cfg      SMTPConfig
	alertTpl *template.Template
	confTpl  *template.Template
}

func NewSMTPMailService(cfg SMTPConfig) MailServiceInterface {
	if cfg.AppName == "" {
		cfg.AppName = "Wayfarer"
	}
	return &smtpMailService{
		cfg:      cfg,
		alertTpl: template.Must(template.New("alert").Parse(alertHTMLTemplate)),
		confTpl:  template.Must(template.New("confirmation").Parse(confirmationHTMLTemplate)),
	}
}

// ------------------- Public API -------------------

// SendAlertEmail delivers a digest of monitoring alerts for one trip. Email is
// best-effort: an unconfigured SMTP host logs a warning and returns nil so the
// monitoring pipeline never blocks on delivery.
func (s *smtpMailService) SendAlertEmail(to, name, destination string, alerts []db_models.TripAlert) error {
	if !s.cfg.configured() {
		log.Printf("smtp not configured, skipping alert email to %s", to)
		return nil
	}
	if len(alerts) == 0 {
		return nil
	}

	messages := make([]string, 0, len(alerts))
	hasScheduleChange := false
	for _, a := range alerts {
		messages = append(messages, a.Message)
		if a.AlertType == db_models.AlertTypeScheduleChange {
			hasScheduleChange = true
		}
	}

	subjectPrefix := "Price drop"
	if hasScheduleChange {
		subjectPrefix = "Flight schedule change"
	}
	subject := fmt.Sprintf("%s alert - %s", subjectPrefix, destination)

	var body bytes.Buffer
	err := s.alertTpl.Execute(&body, alertEmailData{
		Name:        name,
		Destination: destination,
		Messages:    messages,
		AppName:     s.cfg.AppName,
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, body.String())
}

func (s *smtpMailService) SendBookingConfirmation(to, name, destination string, trip *db_models.Trip, bookings []db_models.Booking) error {
	if !s.cfg.configured() {
		log.Printf("smtp not configured, skipping confirmation email for trip %s", trip.ID)
		return nil
	}

	rows := make([]confirmationRow, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, confirmationRow{
			Type:               b.Type,
			ConfirmationNumber: b.ConfirmationNumber,
			Detail:             bookingDetailLine(b),
		})
	}

	var body bytes.Buffer
	err := s.confTpl.Execute(&body, confirmationEmailData{
		Name:        name,
		Destination: destination,
		Rows:        rows,
		AppName:     s.cfg.AppName,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Your trip to %s is confirmed!", destination)
	return s.send(to, subject, body.String())
}

func bookingDetailLine(b db_models.Booking) string {
	details, err := b.DecodeDetails()
	if err != nil {
		return ""
	}
	switch {
	case details.Flight != nil:
		f := details.Flight
		depart := f.DepartDatetime
		if len(depart) > 16 {
			depart = depart[:16]
		}
		return fmt.Sprintf("%s %s, %s to %s, departing %s (%s)",
			f.Carrier, f.FlightNumber, f.Origin, f.Destination,
			strings.ReplaceAll(depart, "T", " "), f.Cabin)
	case details.Hotel != nil:
		h := details.Hotel
		return fmt.Sprintf("%s, check-in %s, check-out %s (%s)",
			h.HotelName, h.CheckIn, h.CheckOut, h.RoomType)
	case details.Activity != nil:
		a := details.Activity
		return fmt.Sprintf("%s, %s (%.0fh, %s)", a.ActivityName, a.Date, a.DurationHours, a.Category)
	}
	return ""
}

// ------------------- Templates -------------------

type alertEmailData struct {
	Name        string
	Destination string
	Messages    []string
	AppName     string
}

type confirmationRow struct {
	Type               string
	ConfirmationNumber string
	Detail             string
}

type confirmationEmailData struct {
	Name        string
	Destination string
	Rows        []confirmationRow
	AppName     string
}

const alertHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family:Arial,sans-serif;max-width:640px;margin:auto;color:#222">
  <h2 style="color:#1a56a0">Trip update for your {{.Destination}} booking</h2>
  <p>Hi {{.Name}},</p>
  <p>We noticed the following change(s) affecting your upcoming trip:</p>
  <ul style="line-height:1.8">
    {{range .Messages}}<li style="margin-bottom:8px">{{.}}</li>
    {{end}}
  </ul>
  <p style="margin-top:16px">
    Log in to your {{.AppName}} account to view full details and manage your booking.
  </p>
  <hr style="border:none;border-top:1px solid #ddd;margin:24px 0">
  <p style="font-size:12px;color:#888">
    This alert was sent by {{.AppName}}. To stop receiving alerts, manage your
    notification settings in your account.
  </p>
</body>
</html>`

const confirmationHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family:Arial,sans-serif;max-width:640px;margin:auto;color:#222">
  <h2 style="color:#1a56a0">Your trip to {{.Destination}} is confirmed</h2>
  <p>Hi {{.Name}},</p>
  <p>All bookings for your trip to <strong>{{.Destination}}</strong> have been
     confirmed. Details below:</p>

  <table style="width:100%;border-collapse:collapse;margin:16px 0">
    <thead>
      <tr style="background:#f0f4fb">
        <th style="padding:8px;text-align:left">Type</th>
        <th style="padding:8px;text-align:left">Confirmation #</th>
        <th style="padding:8px;text-align:left">Details</th>
      </tr>
    </thead>
    <tbody>
      {{range .Rows}}<tr>
        <td style="padding:8px;text-transform:capitalize">{{.Type}}</td>
        <td style="padding:8px;font-family:monospace">{{.ConfirmationNumber}}</td>
        <td style="padding:8px">{{.Detail}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <hr style="border:none;border-top:1px solid #ddd;margin:24px 0">
  <p style="font-size:12px;color:#888">
    This email was sent by {{.AppName}}. Please keep this for your records.
  </p>
</body>
</html>`

// ------------------- SMTP Send -------------------

func (s *smtpMailService) send(to, subject, htmlBody string) error {
	fromHeader := s.formatFromHeader()
	date := time.Now().Format(time.RFC1123Z)

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", fromHeader)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", subject)
	write("Date: %s\r\n", date)
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 7bit\r\n")
	write("\r\n")
	write("%s\r\n", htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		return s.transmit(c, auth, to, msg.Bytes())
	}

	// STARTTLS path (typically port 587)
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	} else if s.cfg.RequireTLS {
		return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
	}

	return s.transmit(c, auth, to, msg.Bytes())
}

func (s *smtpMailService) transmit(c *smtp.Client, auth smtp.Auth, to string, msg []byte) error {
	if s.cfg.Username != "" {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mimeQuote(name), s.cfg.From)
}

// RFC 2047 encoded word for non-ASCII display names.
func mimeQuote(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return fmt.Sprintf("=?UTF-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(s)))
		}
	}
	return s
}
