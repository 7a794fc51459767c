package detection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/roarscore/roarscore-api/schema"
)

const defaultTimeout = 30 * time.Second

// ErrDataUnavailable covers every way a detection file can fail to produce
// rows. Callers treat it as an empty batch.
var ErrDataUnavailable = errors.New("detection data unavailable")

type Source interface {
	Fetch(ctx context.Context, url string) ([]schema.DetectionRow, error)
}

type source struct {
	client *http.Client
}

// Fetch downloads one detection file. Times are not set, they depend on
// where the file sits in the schedule.
func (s source) Fetch(ctx context.Context, url string) ([]schema.DetectionRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if nil != err {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if nil != err {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrDataUnavailable, url, resp.Status)
	}

	d, err := ioutil.ReadAll(resp.Body)
	if nil != err {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	return decode(url, d)
}

func decode(name string, d []byte) ([]schema.DetectionRow, error) {
	var rows []schema.DetectionRow
	if err := json.Unmarshal(d, &rows); nil != err {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrDataUnavailable, name)
	}

	return rows, nil
}

func New(client *http.Client) Source {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &source{
		client: client,
	}
}
