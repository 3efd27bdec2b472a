package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-admin-dashboard/internal/domain/event"
)

// NewESClient creates an Elasticsearch client with optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// Indexer projects user events into a search index.
type Indexer struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *Indexer {
	return &Indexer{ES: es, Index: index, Logger: logger}
}

// Handle applies one event to the index.
func (ix *Indexer) Handle(ctx context.Context, ev event.UserEvent) error {
	switch ev.Type {
	case event.TypeUsersLoaded:
		return ix.bulkIndex(ctx, ev.Users)
	case event.TypeUserUpdated:
		if ev.User == nil {
			return nil
		}
		return ix.indexUser(ctx, *ev.User)
	case event.TypeUserDeleted:
		return ix.deleteUser(ctx, ev.UserID)
	}
	ix.Logger.WithField("type", ev.Type).Debug("ignoring unknown user event")
	return nil
}

// Document is the indexed form of a user.
func Document(u entity.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"role":        u.Role,
		"status":      string(u.Status),
		"avatar":      u.Avatar,
		"created_at":  u.CreatedAt.Format(time.RFC3339Nano),
		"last_active": u.LastActive.Format(time.RFC3339Nano),
	}
}

func (ix *Indexer) indexUser(ctx context.Context, u entity.User) error {
	b, err := json.Marshal(Document(u))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: ix.Index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index user %s: %s", u.ID, res.Status())
	}
	return nil
}

func (ix *Indexer) deleteUser(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: ix.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// 404 means already gone.
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete user %s: %s", id, res.Status())
	}
	return nil
}

func (ix *Indexer) bulkIndex(ctx context.Context, users []entity.User) error {
	if len(users) == 0 {
		return nil
	}
	body, err := BulkBody(ix.Index, users)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	res, err := ix.ES.Bulk(strings.NewReader(body), ix.ES.Bulk.WithContext(c), ix.ES.Bulk.WithIndex(ix.Index))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("bulk index users: %s", res.Status())
	}
	ix.Logger.WithField("count", len(users)).Info("users indexed")
	return nil
}

// BulkBody renders the NDJSON payload of a bulk index request.
func BulkBody(index string, users []entity.User) (string, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	for _, u := range users {
		meta := map[string]any{"index": map[string]any{"_index": index, "_id": u.ID}}
		if err := enc.Encode(meta); err != nil {
			return "", err
		}
		if err := enc.Encode(Document(u)); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
