package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-capital/internal/client"
	"country-capital/internal/models"
)

type pngDecoder struct{}

func (pngDecoder) Decode(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

func flagPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	img.Set(0, 0, color.RGBA{R: 0, G: 85, B: 164, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeAPI serves /name/{query} and /flags/{file}, counting every request.
type fakeAPI struct {
	server      *httptest.Server
	nameHits    atomic.Int32
	flagHits    atomic.Int32
	nameStatus  int
	nameBody    string
	flagStatus  int
	flagPayload []byte
}

func newFakeAPI(t *testing.T) *fakeAPI {
	api := &fakeAPI{nameStatus: http.StatusOK, flagStatus: http.StatusOK, flagPayload: flagPNG(t)}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/name/"):
			api.nameHits.Add(1)
			w.WriteHeader(api.nameStatus)
			body := api.nameBody
			if body == "" {
				body = fmt.Sprintf(`[{"name":{"common":"France"},"capital":["Paris"],"flags":{"png":"%s/flags/fr.png"}}]`, api.server.URL)
			}
			fmt.Fprint(w, body)
		case strings.HasPrefix(r.URL.Path, "/flags/"):
			api.flagHits.Add(1)
			w.WriteHeader(api.flagStatus)
			w.Write(api.flagPayload)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(api.server.Close)
	return api
}

func (api *fakeAPI) service() *LookupService {
	c := client.NewRestCountriesClient(client.Options{BaseURL: api.server.URL, Timeout: 2 * time.Second})
	return NewLookupService(c, pngDecoder{}, models.NewInMemoryCache(), models.NewFlagCache(), nil)
}

func TestLookup_EmptyInputMakesNoRequest(t *testing.T) {
	api := newFakeAPI(t)
	svc := api.service()

	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := svc.Lookup(context.Background(), raw)
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.Equal(t, MsgEmptyQuery, Describe(err))
	}

	assert.Zero(t, api.nameHits.Load())
	assert.Zero(t, svc.CacheSize())
}

func TestLookup_CacheMissThenHit(t *testing.T) {
	api := newFakeAPI(t)
	svc := api.service()

	first, err := svc.Lookup(context.Background(), "  France  ")
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, models.Query("france"), first.Query)
	assert.Equal(t, "Paris", first.Record.Capital())

	second, err := svc.Lookup(context.Background(), "FRANCE")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Record.Capital(), second.Record.Capital())

	assert.Equal(t, int32(1), api.nameHits.Load(), "second lookup must be served from cache")
	assert.Equal(t, 1, svc.CacheSize())

	cached, found := svc.Cached("france")
	assert.True(t, found)
	assert.Equal(t, first.Record, cached)
}

func TestLookup_StatusMessages(t *testing.T) {
	testCases := []struct {
		status int
		want   string
	}{
		{http.StatusNotFound, "Not found:\nCountry not found"},
		{http.StatusInternalServerError, "Internal Server Error:\nPlease try again later"},
		{http.StatusBadGateway, "Bad gateway:\nInvalid response from the server"},
		{http.StatusServiceUnavailable, "Server is unavailable:\nServer is down"},
	}

	for _, tc := range testCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			api := newFakeAPI(t)
			api.nameStatus = tc.status
			api.nameBody = `{"message":"error"}`
			svc := api.service()

			_, err := svc.Lookup(context.Background(), "atlantis")
			require.Error(t, err)
			assert.Equal(t, tc.want, Describe(err))
			assert.Zero(t, svc.CacheSize(), "failures are never cached")
		})
	}
}

func TestStatusMessage(t *testing.T) {
	testCases := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, "Bad request:\nPlease check your input"},
		{http.StatusUnauthorized, "Unauthorized:\nInvalid API key"},
		{http.StatusForbidden, "Forbidden:\nAccess is denied"},
		{http.StatusNotFound, "Not found:\nCountry not found"},
		{http.StatusInternalServerError, "Internal Server Error:\nPlease try again later"},
		{http.StatusBadGateway, "Bad gateway:\nInvalid response from the server"},
		{http.StatusServiceUnavailable, "Server is unavailable:\nServer is down"},
		{http.StatusGatewayTimeout, "Gateway Timeout:\nNo response from the server"},
	}

	for _, tc := range testCases {
		msg, ok := StatusMessage(tc.status)
		assert.True(t, ok, tc.status)
		assert.Equal(t, tc.want, msg)
	}

	_, ok := StatusMessage(http.StatusTeapot)
	assert.False(t, ok)
}

func TestLookup_EmptyArrayIsNotFoundAndNotCached(t *testing.T) {
	api := newFakeAPI(t)
	api.nameBody = `[]`
	svc := api.service()

	_, err := svc.Lookup(context.Background(), "nowhere")
	require.Error(t, err)
	assert.Equal(t, "Not found:\nCountry not found", Describe(err))
	assert.Zero(t, svc.CacheSize())

	_, err = svc.Lookup(context.Background(), "nowhere")
	require.Error(t, err)
	assert.Equal(t, int32(2), api.nameHits.Load())
}

func TestFlag_SuccessIsMemoized(t *testing.T) {
	api := newFakeAPI(t)
	svc := api.service()

	result, err := svc.Lookup(context.Background(), "france")
	require.NoError(t, err)

	img, err := svc.Flag(context.Background(), result.Record)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())

	again, err := svc.Flag(context.Background(), result.Record)
	require.NoError(t, err)
	assert.Equal(t, img, again)
	assert.Equal(t, int32(1), api.flagHits.Load())
}

func TestFlag_FailureLeavesCapitalIntact(t *testing.T) {
	api := newFakeAPI(t)
	api.flagStatus = http.StatusNotFound
	svc := api.service()

	result, err := svc.Lookup(context.Background(), "france")
	require.NoError(t, err)
	assert.Equal(t, "Paris", result.Record.Capital())

	_, err = svc.Flag(context.Background(), result.Record)
	require.Error(t, err)

	cached, found := svc.Cached("france")
	require.True(t, found)
	assert.Equal(t, "Paris", cached.Capital())
}

func TestFlag_UndecodableBytes(t *testing.T) {
	api := newFakeAPI(t)
	api.flagPayload = []byte("<html>not a png</html>")
	svc := api.service()

	result, err := svc.Lookup(context.Background(), "france")
	require.NoError(t, err)

	_, err = svc.Flag(context.Background(), result.Record)
	assert.ErrorContains(t, err, "decode flag")
}

func TestFlag_MissingURL(t *testing.T) {
	api := newFakeAPI(t)
	api.nameBody = `[{"name":{"common":"Nowhere"},"capital":["Nil"],"flags":{}}]`
	svc := api.service()

	result, err := svc.Lookup(context.Background(), "nowhere")
	require.NoError(t, err)

	_, err = svc.Flag(context.Background(), result.Record)
	require.Error(t, err)
	assert.Zero(t, api.flagHits.Load())
}

func TestDescribe(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty query", ErrEmptyQuery, MsgEmptyQuery},
		{"bad request", &client.StatusError{Code: 400}, "Bad request:\nPlease check your input"},
		{"unauthorized", &client.StatusError{Code: 401}, "Unauthorized:\nInvalid API key"},
		{"forbidden", &client.StatusError{Code: 403}, "Forbidden:\nAccess is denied"},
		{"gateway timeout", &client.StatusError{Code: 504}, "Gateway Timeout:\nNo response from the server"},
		{"connection", &client.TransportError{Kind: client.TransportConnection, Err: errors.New("dial")}, MsgConnection},
		{"timeout", &client.TransportError{Kind: client.TransportTimeout, Err: errors.New("slow")}, MsgTimeout},
		{"redirects", &client.TransportError{Kind: client.TransportRedirects, Err: errors.New("loop")}, MsgRedirects},
		{"wrapped", fmt.Errorf("lookup: %w", &client.StatusError{Code: 404}), "Not found:\nCountry not found"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Describe(tc.err))
		})
	}
}

func TestDescribe_Fallbacks(t *testing.T) {
	teapot := &client.StatusError{Code: 418, URL: "https://example.test/name/tea"}
	assert.Equal(t, "HTTP error occurred:\n"+teapot.Error(), Describe(teapot))

	other := &client.TransportError{Kind: client.TransportOther, Err: errors.New("tls: handshake failure")}
	assert.Equal(t, "Request Error:\ntls: handshake failure", Describe(other))

	decode := &client.DecodeError{Err: errors.New("unexpected EOF")}
	assert.Equal(t, "Request Error:\nfailed to decode response: unexpected EOF", Describe(decode))
}
