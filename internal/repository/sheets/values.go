package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// ValuesAPI is the slice of the Google Sheets values surface the repo needs.
// Ranges use A1 notation. Clear never touches row 1, because every data
// range the repo uses starts at row 2.
type ValuesAPI interface {
	Get(ctx context.Context, rng string) ([][]any, error)
	Clear(ctx context.Context, rng string) error
	Append(ctx context.Context, rng string, rows [][]any) error
}

type googleValues struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewValues builds the production ValuesAPI from a service-account
// credentials file.
func NewValues(ctx context.Context, spreadsheetID, credentialsFile string) (ValuesAPI, error) {
	svc, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &googleValues{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (g *googleValues) Get(ctx context.Context, rng string) ([][]any, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g *googleValues) Clear(ctx context.Context, rng string) error {
	_, err := g.svc.Spreadsheets.Values.Clear(g.spreadsheetID, rng, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (g *googleValues) Append(ctx context.Context, rng string, rows [][]any) error {
	vr := &sheetsapi.ValueRange{Values: rows}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}
