package logger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/microblog/pkg/mail"
)

// AdminMailHook mails error entries to the site admins.
type AdminMailHook struct {
	mailer mail.Mailer
	sender string
	admins []string
	send   func(mail.Mailer, mail.Message)
}

func NewAdminMailHook(mailer mail.Mailer, sender string, admins []string) *AdminMailHook {
	return &AdminMailHook{
		mailer: mailer,
		sender: sender,
		admins: admins,
		send:   mail.SendAsync,
	}
}

func (h *AdminMailHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel}
}

func (h *AdminMailHook) Fire(entry *logrus.Entry) error {
	h.send(h.mailer, mail.Message{
		Subject:    "Microblog Failure",
		Sender:     h.sender,
		Recipients: h.admins,
		TextBody:   formatEntry(entry),
	})
	return nil
}

func formatEntry(entry *logrus.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s\n", entry.Time.Format("2006-01-02 15:04:05"), strings.ToUpper(entry.Level.String()), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%v\n", k, entry.Data[k])
	}
	return b.String()
}
