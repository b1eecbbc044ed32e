package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(target string) Params {
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		name       string
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/?", DefaultLimit, 0},
		{"explicit", "/?limit=50&offset=10", 50, 10},
		{"limit capped", "/?limit=500", MaxLimit, 0},
		{"negative limit falls back", "/?limit=-5", DefaultLimit, 0},
		{"negative offset clamped", "/?offset=-3", DefaultLimit, 0},
		{"garbage ignored", "/?limit=abc&offset=xyz", DefaultLimit, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := paramsFor(tc.target)
			if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
				t.Errorf("got limit=%d offset=%d, want limit=%d offset=%d",
					p.Limit, p.Offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	if !NewResponse(nil, 100, 20, 0).HasMore {
		t.Error("expected has_more on first page of 100")
	}
	if NewResponse(nil, 15, 20, 0).HasMore {
		t.Error("did not expect has_more when everything fits one page")
	}
	if NewResponse(nil, 40, 20, 20).HasMore {
		t.Error("did not expect has_more on the last page")
	}
}
