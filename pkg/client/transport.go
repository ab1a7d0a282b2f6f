package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"betwallet_client/pkg/apierror"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// File is one multipart file part.
type File struct {
	Param  string
	Name   string
	Reader io.Reader
}

// Request describes exactly one HTTP round trip.
type Request struct {
	Method  string
	Path    string
	Query   map[string]string
	Headers map[string]string
	Body    any
	Form    map[string]string
	Files   []File
}

// Transport issues single requests against the backend. It never retries and never
// caches; failures come back as *apierror.Error.
type Transport struct {
	rc      *resty.Client
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewTransport(cfg Config, log logrus.FieldLogger) *Transport {
	if log == nil {
		log = logrus.StandardLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetLogger(restyLogger{log})
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Transport{rc: rc, timeout: timeout, log: log}
}

// Do performs req and decodes a 2xx JSON body into out (when non-nil).
func (t *Transport) Do(ctx context.Context, req Request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	r := t.rc.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	switch {
	case len(req.Files) > 0:
		for _, f := range req.Files {
			r.SetFileReader(f.Param, f.Name, f.Reader)
		}
		r.SetFormData(req.Form)
	case len(req.Form) > 0:
		r.SetMultipartFormData(req.Form)
	case req.Body != nil:
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	resp, err := r.Execute(method, req.Path)
	if err != nil {
		apiErr := apierror.FromTransport(ctx, err)
		t.log.WithFields(logrus.Fields{"method": method, "path": req.Path, "kind": apiErr.Kind}).
			Warnf("request failed: %v", err)
		return apiErr
	}
	if resp.IsError() {
		apiErr := apierror.FromResponse(resp.StatusCode(), resp.Body())
		t.log.WithFields(logrus.Fields{"method": method, "path": req.Path, "status": resp.StatusCode()}).
			Warnf("backend error: %s", apiErr.Message)
		return apiErr
	}
	t.log.WithFields(logrus.Fields{"method": method, "path": req.Path, "status": resp.StatusCode()}).Debug("request ok")

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		t.log.WithField("path", req.Path).Errorf("decode response: %v", err)
		return apierror.Decode(err)
	}
	return nil
}

// restyLogger routes resty's internal messages through logrus.
type restyLogger struct {
	log logrus.FieldLogger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Errorf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Warnf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debugf(format, v...) }
