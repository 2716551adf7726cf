// Reader is a client of the http reporter, used by tests and the cli.

package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/TEENet-io/swapflow/swapflow"
)

type HttpReader struct {
	baseURL string
	client  *http.Client
}

func NewHttpReader(serverIP string, serverPort string) *HttpReader {
	return NewHttpReaderWithURL("http://" + serverIP + ":" + serverPort)
}

// NewHttpReaderWithURL is used with httptest servers.
func NewHttpReaderWithURL(baseURL string) *HttpReader {
	return &HttpReader{
		baseURL: baseURL,
		client:  http.DefaultClient,
	}
}

// HttpError is returned for any non 200 response.
type HttpError struct {
	StatusCode int
	Message    string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func (hr *HttpReader) GetHello() (string, error) {
	resp, err := hr.client.Get(hr.baseURL + ROUTE_HELLO)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Read the response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Convert the body to a string
	return string(body), nil
}

// PostEvent ingests one event and returns the event count after it.
func (hr *HttpReader) PostEvent(globalTxID string, sourceID uint64, eventData string) (uint64, error) {
	body, err := json.Marshal(map[string]interface{}{
		"global_tx_id": globalTxID,
		"source_id":    sourceID,
		"event_data":   eventData,
	})
	if err != nil {
		return 0, err
	}

	var out struct {
		Count uint64 `json:"count"`
	}
	if err := hr.do(http.MethodPost, ROUTE_EVENTS, body, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (hr *HttpReader) GetEventCount() (uint64, error) {
	var out struct {
		Count uint64 `json:"count"`
	}
	if err := hr.do(http.MethodGet, ROUTE_EVENT_COUNT, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (hr *HttpReader) GetSigningHash(globalTxID string) (string, error) {
	q := url.Values{"global_tx_id": {globalTxID}}
	var out struct {
		Hash string `json:"hash"`
	}
	if err := hr.do(http.MethodGet, ROUTE_SIGNING_HASH+"?"+q.Encode(), nil, &out); err != nil {
		return "", err
	}
	return out.Hash, nil
}

func (hr *HttpReader) GetCallData(globalTxID, signature string) (*swapflow.CallData, error) {
	q := url.Values{"global_tx_id": {globalTxID}, "signature": {signature}}
	out := &swapflow.CallData{}
	if err := hr.do(http.MethodGet, ROUTE_CALLDATA+"?"+q.Encode(), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (hr *HttpReader) do(method, path string, body []byte, out interface{}) error {
	req, err := http.NewRequest(method, hr.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hr.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = string(data)
		}
		return &HttpError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	return json.Unmarshal(data, out)
}
