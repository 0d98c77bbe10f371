package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

func New(msg string) error {
	return cr.New(msg)
}

func Newf(format string, args ...any) error {
	return cr.Newf(format, args...)
}

// Mark keeps err's message and chain but makes errors.Is(err, markErr) true,
// for the standard library as well as for cockroachdb/errors.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return &marked{cause: cr.Mark(err, markErr), mark: markErr}
}

type marked struct {
	cause error
	mark  error
}

func (m *marked) Error() string { return m.cause.Error() }

func (m *marked) Unwrap() error { return m.cause }

func (m *marked) Is(target error) bool { return target == m.mark }

func (m *marked) Format(s fmt.State, verb rune) {
	if f, ok := m.cause.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprint(s, m.cause.Error())
}

func Is(err, reference error) bool {
	return cr.Is(err, reference)
}

// IsAny reports whether err matches one of the references.
func IsAny(err error, references ...error) bool {
	return cr.IsAny(err, references...)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
