package logger

import "context"

type submissionKey struct{}

// WithSubmission tags ctx with the id of the UI submission that issued the work, so
// components further down can attach it to their log entries and outgoing requests.
func WithSubmission(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionKey{}, id)
}

// SubmissionID returns the id stored by WithSubmission, or "".
func SubmissionID(ctx context.Context) string {
	id, _ := ctx.Value(submissionKey{}).(string)
	return id
}
