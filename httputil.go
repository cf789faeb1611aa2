package chipbook

// HTTP plumbing for the spreadsheet values API: a client whose responses are
// cached on disk until the end of the day.

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
)

// dayCache is a RoundTripper that replays successful responses from disk.
// The cache key folds in the current date, so entries expire overnight.
type dayCache struct {
	next http.RoundTripper
}

func (c *dayCache) RoundTrip(req *http.Request) (*http.Response, error) {
	sum := sha1.Sum([]byte(Today().String() + " " + req.Method + " " + req.URL.String()))
	path := filepath.Join(os.TempDir(), fmt.Sprintf("chipbook-%x", sum))

	if raw, err := os.ReadFile(path); err == nil {
		if resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(raw)), req); err == nil {
			return resp, nil
		}
	}

	resp, err := c.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// DumpResponse leaves the body readable for the caller.
	raw, err := httputil.DumpResponse(resp, true)
	if err == nil {
		err = os.WriteFile(path, raw, 0600)
	}
	if err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// daily returns a client whose GETs are served from the day cache.
func daily() *http.Client {
	return &http.Client{Transport: &dayCache{http.DefaultTransport}}
}

// jwget performs an HTTP GET and decodes the JSON response into data.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, data)
}
