// Package logging provides structured logging helpers for the booking
// assistant, built on the standard library's slog package.
//
// It defines the attribute vocabulary used across the module (operation,
// tool, account, status, error) and the PII handling rules for attendee
// addresses.
//
// # Usage Patterns
//
// Attach standard attributes to a log statement:
//
//	slog.Debug("Dispatched booking action",
//	    logging.Operation("create_appointment"),
//	    logging.Status(logging.StatusSuccess))
//
// Sanitize attendee addresses before logging:
//
//	slog.Info("Created appointment with attendee",
//	    logging.UserHash(attendeeEmail))
//
// Attendee emails are hashed so bookings stay correlatable in the logs
// without the address itself ever being written out.
package logging
