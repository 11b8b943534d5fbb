package jira

import (
	"reflect"
	"testing"
)

func TestEncodeQueryKeepsInsertionOrder(t *testing.T) {
	r := NewRequest("GET", "/search").
		AddQuery("maxResults", "100").
		AddQuery("fields", "summary").
		AddQuery("jql", "project=PRJ and watcher != currentUser()")

	want := "maxResults=100&fields=summary&jql=project%3DPRJ+and+watcher+%21%3D+currentUser%28%29"
	if got := r.EncodeQuery(); got != want {
		t.Errorf("EncodeQuery() = %q, want %q", got, want)
	}
}

func TestNewRequest(t *testing.T) {
	r := NewRequest("GET", "/serverInfo")
	if r.Protocol != "https" {
		t.Errorf("Protocol = %q, want %q", r.Protocol, "https")
	}
	if r.Path != "/rest/api/2/serverInfo" {
		t.Errorf("Path = %q, want %q", r.Path, "/rest/api/2/serverInfo")
	}
	if r.Auth != nil || r.Headers != nil || r.Body != "" {
		t.Errorf("new request should carry no auth, headers or body: %+v", r)
	}
}

func TestWithJSONBody(t *testing.T) {
	r := NewRequest("POST", "/issue/PRJ-1/watchers").WithJSONBody(`"u"`)

	if r.Body != `"u"` {
		t.Errorf("Body = %q, want %q", r.Body, `"u"`)
	}
	want := map[string]string{"Content-type": "application/json"}
	if !reflect.DeepEqual(r.Headers, want) {
		t.Errorf("Headers = %v, want %v", r.Headers, want)
	}
}

func TestRequestURL(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		host    string
		want    string
		wantErr bool
	}{
		{
			name: "no query",
			req:  NewRequest("GET", "/serverInfo"),
			host: "jira.example.com",
			want: "https://jira.example.com/rest/api/2/serverInfo",
		},
		{
			name: "with port and query",
			req:  NewRequest("GET", "/issue/PRJ-1").AddQuery("fields", "summary,labels"),
			host: "jira.example.com:8443",
			want: "https://jira.example.com:8443/rest/api/2/issue/PRJ-1?fields=summary%2Clabels",
		},
		{
			name:    "missing host",
			req:     NewRequest("GET", "/serverInfo"),
			wantErr: true,
		},
		{
			name:    "plain http rejected",
			req:     &Request{Protocol: "http", Method: "GET", Path: "/x"},
			host:    "jira.example.com",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.URL(tt.host)
			if (err != nil) != tt.wantErr {
				t.Fatalf("URL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestString(t *testing.T) {
	r := NewRequest("GET", "/search").AddQuery("maxResults", "5")
	if got, want := r.String(), "GET /rest/api/2/search?maxResults=5"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestResponseErr(t *testing.T) {
	var nilResp *Response
	if nilResp.Err() != nil {
		t.Error("nil response should have no error")
	}

	r := &Response{Status: 500}
	if r.Err() != nil {
		t.Error("response without annotations should have no error")
	}
	r.AddError("Unable to add %s to %s", "u", "PRJ-1")
	if r.Err() == nil || r.Err().Error() != "Unable to add u to PRJ-1" {
		t.Errorf("Err() = %v", r.Err())
	}
}

func TestServerMessage(t *testing.T) {
	r := &Response{Body: []byte(`{"errorMessages":["Issue does not exist"],"errors":{"b":"two","a":"one"}}`)}
	want := "Issue does not exist; a: one; b: two"
	if got := r.ServerMessage(); got != want {
		t.Errorf("ServerMessage() = %q, want %q", got, want)
	}

	r = &Response{Body: []byte("<html>oops</html>")}
	if got := r.ServerMessage(); got != "" {
		t.Errorf("ServerMessage() = %q, want empty", got)
	}
}
