package mail_fx

import (
	"os"
	"strconv"

	"go.uber.org/fx"

	"wayfarer/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService() services.MailServiceInterface {
	port := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	cfg := services.SMTPConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       port, // 587 for STARTTLS; use 465 with UseSSL=true for SMTPS
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       os.Getenv("SMTP_FROM"),
		FromName:   "Wayfarer",
		UseSSL:     port == 465,
		RequireTLS: true,

		AppName: "Wayfarer",
	}

	return services.NewSMTPMailService(cfg)
}
