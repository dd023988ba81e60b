package geosvc

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/event"
)

var (
	host     = "https://nominatim.openstreetmap.org"
	endpoint = "/search"

	maxResults = 5
)

// NominatimGeocoder resolves free-text place queries against the public
// Nominatim API.
type NominatimGeocoder struct {
	conf   *core.Config
	client *http.Client
}

var _ event.Geocoder = (*NominatimGeocoder)(nil)

func NewNominatimGeocoder(conf *core.Config) *NominatimGeocoder {
	return &NominatimGeocoder{
		conf:   conf,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *NominatimGeocoder) Search(ctx context.Context, query string) ([]event.Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building geocoder request")
	}
	// Nominatim's usage policy requires an identifying User-Agent
	req.Header.Set("User-Agent", g.conf.AppName+"/"+g.conf.Build)

	res, err := g.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "querying geocoder")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("geocoder returned status %d", res.StatusCode)
	}

	var results []nominatimResult
	if err = json.NewDecoder(res.Body).Decode(&results); err != nil {
		return nil, errors.Wrap(err, "decoding geocoder response")
	}

	places := make([]event.Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		places = append(places, event.Place{Name: r.DisplayName, Latitude: lat, Longitude: lng})
	}
	return places, nil
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
