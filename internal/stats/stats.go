package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/chronos/internal/config"
	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/keyring"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/internal/utils"
)

// Recorder counts usage events. Implementations never block the caller on
// network I/O and never fail the feature that triggered them.
type Recorder interface {
	Record(counter string, at time.Time)
}

// Noop drops every event. It is used in anonymous mode.
type Noop struct{}

func (Noop) Record(string, time.Time) {}

// Local keeps per-day counters in the keyed store.
type Local struct {
	key *store.Key[models.Stats]
}

func NewLocal(key *store.Key[models.Stats]) *Local {
	return &Local{key: key}
}

func (l *Local) Record(counter string, at time.Time) {
	date := utils.DateString(at)
	l.key.Update(func(s models.Stats) models.Stats {
		return s.Increment(date, counter)
	})
}

// Snapshot returns the current counters.
func (l *Local) Snapshot() models.Stats {
	return l.key.Get()
}

// Series returns the value of counter for the n days ending at end, oldest first.
func Series(s models.Stats, counter string, end time.Time, n int) []int {
	out := make([]int, n)
	for i := 0; i < n; i++ {
		day := end.AddDate(0, 0, i-n+1)
		out[i] = s.Count(utils.DateString(day), counter)
	}
	return out
}

// RemotePayload is the body POSTed to the stats endpoint.
type RemotePayload struct {
	UserID  string `json:"user_id"`
	Counter string `json:"counter"`
	Date    string `json:"date"`
	At      string `json:"at"`
}

// Remote increments counters on a remote document store over HTTP.
type Remote struct {
	endpoint string
	userID   string
	token    string
	client   *http.Client
	wg       sync.WaitGroup
}

func NewRemote(endpoint, userID, token string) *Remote {
	return &Remote{
		endpoint: strings.TrimRight(endpoint, "/"),
		userID:   userID,
		token:    token,
		client:   &http.Client{Timeout: constants.StatsRequestTimeout},
	}
}

// Record sends the increment in the background; failures are logged.
func (r *Remote) Record(counter string, at time.Time) {
	payload := RemotePayload{
		UserID:  r.userID,
		Counter: counter,
		Date:    utils.DateString(at),
		At:      at.UTC().Format(time.RFC3339),
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), constants.StatsRequestTimeout)
		defer cancel()
		if err := r.send(ctx, payload); err != nil {
			logger.Warn("Remote stats update failed", "counter", counter, "error", err)
		}
	}()
}

// Wait blocks until in-flight requests finish.
func (r *Remote) Wait() {
	r.wg.Wait()
}

func (r *Remote) send(ctx context.Context, payload RemotePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/counters/increment", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token)

	res, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("stats endpoint returned status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}

// Multi fans an event out to several recorders.
type Multi []Recorder

func (m Multi) Record(counter string, at time.Time) {
	for _, r := range m {
		r.Record(counter, at)
	}
}

var getToken = keyring.GetStatsToken

// New builds the recorder for cfg: local counters always, plus remote
// counters when an endpoint, a user id and a keyring token are present.
func New(cfg config.StatsConfig, local *Local) Recorder {
	if cfg.Endpoint == "" || cfg.UserID == "" {
		logger.Debug("Stats running in anonymous mode")
		return local
	}
	token, err := getToken()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Failed to read stats token", "error", err)
		}
		logger.Debug("Stats running in anonymous mode", "reason", err)
		return local
	}
	return Multi{local, NewRemote(cfg.Endpoint, cfg.UserID, token)}
}

type waiter interface {
	Wait()
}

// Flush waits for background sends of r, if it has any.
func Flush(r Recorder) {
	switch v := r.(type) {
	case Multi:
		for _, m := range v {
			Flush(m)
		}
	case waiter:
		v.Wait()
	}
}
