package clientip

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequest_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "connecting ip wins over everything",
			headers:    map[string]string{"CF-Connecting-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8", "X-Real-IP": "9.9.9.9"},
			remoteAddr: "10.0.0.1:5000",
			want:       "1.2.3.4",
		},
		{
			name:       "first forwarded-for hop",
			headers:    map[string]string{"X-Forwarded-For": "5.6.7.8, 9.9.9.9, 10.0.0.1"},
			remoteAddr: "10.0.0.1:5000",
			want:       "5.6.7.8",
		},
		{
			name:       "forwarded-for is trimmed",
			headers:    map[string]string{"X-Forwarded-For": "  5.6.7.8 , 9.9.9.9"},
			remoteAddr: "10.0.0.1:5000",
			want:       "5.6.7.8",
		},
		{
			name:       "real ip fallback",
			headers:    map[string]string{"X-Real-IP": "9.9.9.9"},
			remoteAddr: "10.0.0.1:5000",
			want:       "9.9.9.9",
		},
		{
			name:       "transport remote address",
			remoteAddr: "10.0.0.1:5000",
			want:       "10.0.0.1",
		},
		{
			name:       "remote address without port",
			remoteAddr: "10.0.0.1",
			want:       "10.0.0.1",
		},
		{
			name: "nothing known",
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/log", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := FromRequest(req); got != tt.want {
				t.Errorf("FromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}
