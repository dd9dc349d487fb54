// Package logger configures the process-wide logrus logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/microblog/pkg/config"
	"github.com/anonto42/microblog/pkg/mail"
)

// Setup applies level and format from cfg. When mail is configured outside of
// tests, errors are also mailed to the admins.
func Setup(cfg *config.Config, mailer mail.Mailer) {
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.MailServer != "" && !cfg.Testing && len(cfg.Admins) > 0 {
		logrus.AddHook(NewAdminMailHook(mailer, cfg.Sender(), cfg.Admins))
	}
}
