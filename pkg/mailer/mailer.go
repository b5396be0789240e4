// Package mailer renders and delivers transactional email off the request
// path.
package mailer

import (
	"context"
	"errors"
)

// Job is one message to one or more recipients. Text is required; HTML is
// sent as an alternative part when set.
type Job struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

func (j Job) Validate() error {
	if len(j.To) == 0 {
		return errors.New("mail job has no recipients")
	}
	if j.Subject == "" {
		return errors.New("mail job has no subject")
	}
	return nil
}

// Sender delivers a job synchronously.
type Sender interface {
	Send(ctx context.Context, job Job) error
}
