package competitionsuite

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dci-recap/internal/provider"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "recap-test/1.0", 6000, nil)
}

func TestListEvents(t *testing.T) {
	var gotPath, gotYear, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotYear = r.URL.Query().Get("year")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[
			{"CompetitionGuid": "A1", "EventName": "Show One", "Date": "2022-06-01", "Extra": true},
			{"CompetitionGuid": "B2", "EventName": "Show Two", "Date": "2022-06-02"}
		]`))
	})

	events, err := c.ListEvents(context.Background(), 2022)
	require.NoError(t, err)

	assert.Equal(t, "/competitions", gotPath)
	assert.Equal(t, "2022", gotYear)
	assert.Equal(t, "recap-test/1.0", gotUA)
	assert.Equal(t, []Event{
		{ID: "A1", Name: "Show One", Date: "2022-06-01"},
		{ID: "B2", Name: "Show Two", Date: "2022-06-02"},
	}, events)
}

func TestListEvents_RejectsWholeListOnMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"CompetitionGuid": "A1", "EventName": "Show One", "Date": "2022-06-01"},
			{"EventName": "Broken", "Date": "2022-06-02"}
		]`))
	})

	events, err := c.ListEvents(context.Background(), 2022)
	require.Error(t, err)
	assert.Nil(t, events)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestListEvents_Non200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := c.ListEvents(context.Background(), 2022)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusBadGateway, fe.StatusCode)
	assert.Equal(t, "/competitions", fe.Path)
}

func TestListEvents_MalformedPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	})

	_, err := c.ListEvents(context.Background(), 2022)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchDetail(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/performances", r.URL.Path)
		gotQuery = r.URL.Query().Get("c")
		_, _ = w.Write([]byte(`[{
			"GroupName": "Bluecoats",
			"Categories": [{
				"Name": "Visual",
				"Captions": [{
					"Name": "VP",
					"JudgeFirstName": "Jane",
					"JudgeLastName": "Doe",
					"Subcaptions": [{"Score": 9.5}, {"Score": "9.8"}]
				}]
			}]
		}]`))
	})

	detail, err := c.FetchDetail(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, "A1", gotQuery)

	require.Len(t, detail, 1)
	perf := detail[0]
	assert.Equal(t, "Bluecoats", perf.GroupName)
	require.Len(t, perf.Categories, 1)
	caption := perf.Categories[0].Captions[0]
	require.NotNil(t, caption.JudgeFirstName)
	assert.Equal(t, "Jane", *caption.JudgeFirstName)
	require.Len(t, caption.Subcaptions, 2)

	achievement, ok := provider.ExtractScore(caption.Subcaptions[1].Score)
	assert.True(t, ok)
	assert.InDelta(t, 9.8, achievement, 1e-9)
}

func TestFetchDetail_MissingJudgeStaysNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"GroupName": "X", "Categories": [{"Name": "Visual", "Captions": [{"Name": "VA", "JudgeLastName": "Doe"}]}]}]`))
	})

	detail, err := c.FetchDetail(context.Background(), "A1")
	require.NoError(t, err)
	assert.Nil(t, detail[0].Categories[0].Captions[0].JudgeFirstName)
}

func TestFetchDetail_EmptyID(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", 60, nil)
	_, err := c.FetchDetail(context.Background(), "")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchDetail_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(base, "", 6000, nil)
	_, err := c.FetchDetail(context.Background(), "A1")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate([]byte("abc"), 5))
	assert.Equal(t, "ab...", truncate([]byte("abcdef"), 2))
}
