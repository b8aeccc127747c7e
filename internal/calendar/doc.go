// Package calendar provides a client for interacting with the Google Calendar API.
//
// The client covers the operations the booking assistant needs: checking
// whether a time range is free, collecting the busy intervals of a day,
// creating appointments and listing upcoming events.
//
// Clients authenticate either through the multi-account Google OAuth2 flow
// or with a service account credentials file.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	free, err := client.CheckAvailability(start, end)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
