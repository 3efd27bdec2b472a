package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-admin-dashboard/internal/domain/repository"
)

// PersistChanges returns a listener that writes updates and deletes through
// to w. Failures are logged; the in-memory collection stays authoritative.
func PersistChanges(w repo.ChangeWriter, logger *logrus.Logger, timeout time.Duration) Listener {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func(c Change) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var err error
		switch c.Kind {
		case ChangeUpdated:
			if c.User != nil {
				err = w.Update(ctx, *c.User)
			}
		case ChangeDeleted:
			err = w.Delete(ctx, c.UserID)
		default:
			return
		}
		if err != nil && logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{"user_id": c.UserID, "change": c.Kind}).Warn("persist change failed")
		}
	}
}
