package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/aurumview/metals-backend/internal/market"
	"github.com/aurumview/metals-backend/internal/models"
)

// Client wraps a Firestore collection holding one document per market date.
type Client struct {
	fs         *firestore.Client
	collection string
}

// Connect opens a Firestore client from a service-account credential file.
// When projectID is empty it is read from the credential file itself.
func Connect(ctx context.Context, credentialsFile, projectID, collection string) (*Client, error) {
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("service account not found: %s", credentialsFile)
	}

	if projectID == "" {
		id, err := projectIDFromCredentials(credentialsFile)
		if err != nil {
			return nil, err
		}
		projectID = id
	}

	fs, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}

	return &Client{fs: fs, collection: collection}, nil
}

func (c *Client) Close() error {
	return c.fs.Close()
}

// UpsertDaily merge-writes the record under its date key. The two legacy
// range fields are deleted and updated_at is stamped server-side.
func (c *Client) UpsertDaily(ctx context.Context, rec models.DailyPrice) error {
	ts, err := market.MidnightUTC(rec.Date)
	if err != nil {
		return err
	}

	doc := map[string]any{
		"date":       rec.Date,
		"ts":         ts,
		"gold_oz":    rec.GoldOz,
		"silver_oz":  rec.SilverOz,
		"gold_high":  firestore.Delete,
		"gold_low":   firestore.Delete,
		"source":     rec.Source,
		"updated_at": firestore.ServerTimestamp,
	}

	_, err = c.fs.Collection(c.collection).Doc(rec.Date).Set(ctx, doc, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("upsert %s into %s: %w", rec.Date, c.collection, err)
	}
	return nil
}

func projectIDFromCredentials(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read service account: %w", err)
	}
	var sa struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &sa); err != nil {
		return "", fmt.Errorf("parse service account: %w", err)
	}
	if sa.ProjectID == "" {
		return "", fmt.Errorf("service account %s has no project_id", path)
	}
	return sa.ProjectID, nil
}
