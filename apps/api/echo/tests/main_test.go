package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	. "github.com/udriss/correction/apps/api/echo"
	"github.com/udriss/correction/apps/bootstrap"
	"github.com/udriss/correction/core"
	"github.com/udriss/correction/core/report"
	emailsvc "github.com/udriss/correction/services/email"
	logsvc "github.com/udriss/correction/services/logger"
	"github.com/udriss/correction/storage/files"
)

var (
	app      *Server
	filesDir string
)

func TestMain(m *testing.M) {
	var err error

	report.NowFunc = func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) }

	conf := &core.Config{AppName: "Correction", TestMode: true}
	conf.Codes.Driver = "memory"
	conf.Codes.Timeout = time.Second
	conf.Report.BaseURL = "https://notes.example.org"
	conf.Report.Locale = "fr"

	if filesDir, err = os.MkdirTemp("", "reports"); err != nil {
		fmt.Printf("os.MkdirTemp(): %v", err)
		os.Exit(1)
	}
	store, err := files.NewLocal(filesDir, "https://files.example.org")
	if err != nil {
		fmt.Printf("files.NewLocal(): %v", err)
		os.Exit(1)
	}

	// set up services
	logger := logsvc.NewNopLogger()
	deps, err := bootstrap.New(context.Background(), conf, logger, bootstrap.Overrides{
		Store:  store,
		Mailer: emailsvc.NewConsoleServiceMock(conf),
	})
	if err != nil {
		fmt.Printf("bootstrap.New(): %v", err)
		os.Exit(1)
	}

	// set up server
	app = NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Assembler:  deps.Assembler,
			Validate:   deps.Validate,
			Translator: deps.Translator,
		},
	)

	// run tests
	code := m.Run()

	// clean up
	_ = deps.Close()
	_ = os.RemoveAll(filesDir)
	os.Exit(code)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	accept   string
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
