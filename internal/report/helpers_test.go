package report

import (
	"testing"

	"github.com/nao1215/tabgroupdl/internal/acquire"
	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/model"
	"github.com/nao1215/tabgroupdl/internal/pipeline"
)

var testProfiles = []model.Profile{
	{Kind: model.BrowserFirefox, Name: "abc.default-release", Root: "/home/u/.mozilla/firefox/abc.default-release", Variant: model.VariantNative},
}

// createTestExtraction creates an extraction with one Firefox profile and
// two groups.
func createTestExtraction() *pipeline.Extraction {
	h := model.NewHarvest(testProfiles[0])
	h.AddSource(model.SourceReport{Path: "/snap/1/sessionstore.jsonlz4", Decoder: "mozlz4", Links: 4})
	h.AddSource(model.SourceReport{Path: "/snap/2/places.sqlite", Decoder: "firefox-places", Skipped: true})

	road := model.NewLinkGroup("Road Trip", model.BrowserFirefox)
	road.Add("a", model.RawLink{URL: "https://www.youtube.com/watch?v=aaaaaaaaaaa", Group: "Road Trip"})
	road.Add("b", model.RawLink{URL: "https://youtu.be/bbbbbbbbbbb", Group: "Road Trip"})
	gym := model.NewLinkGroup("Gym", model.BrowserFirefox)
	gym.Add("c", model.RawLink{URL: "https://www.youtube.com/shorts/ccccccccccc", Group: "Gym"})
	h.Groups = []model.LinkGroup{*road, *gym}

	return &pipeline.Extraction{
		Profiles: testProfiles,
		Missing:  []model.BrowserKind{model.BrowserChrome},
		Harvests: []*model.Harvest{h},
		Groups:   []model.LinkGroup{*road, *gym},
	}
}

// createTestRun creates a finished run with one result per state.
func createTestRun(t *testing.T, cancelled bool) *RunReport {
	t.Helper()

	group := model.NewLinkGroup("Road Trip", model.BrowserFirefox)
	r := NewRunReport(group, config.QualityProfiles["1"], "/music/Road Trip", "v1.2.3")

	agg := acquire.NewAggregator()
	results := []model.AcquisitionResult{
		{
			URL:          "https://www.youtube.com/watch?v=aaaaaaaaaaa",
			ContentID:    "aaaaaaaaaaa",
			State:        model.StateSucceeded,
			ArtifactPath: "/music/Road Trip/Song.mp3",
			Attempts: []model.AcquisitionAttempt{
				{StrategyIndex: 0, Auth: model.AuthNone, Try: 1, Class: model.ClassAuthRequired, Message: "Sign in to confirm your age"},
				{StrategyIndex: 1, Auth: model.AuthFirefoxCookies, Try: 1, Class: model.ClassSuccess},
			},
		},
		{
			URL:       "https://youtu.be/bbbbbbbbbbb",
			ContentID: "bbbbbbbbbbb",
			State:     model.StateFailed,
			Error:     "unsupported format",
			Attempts: []model.AcquisitionAttempt{
				{StrategyIndex: 0, Auth: model.AuthNone, Try: 1, Class: model.ClassUnsupported, Message: "Requested format is not available"},
			},
		},
		{URL: "https://youtu.be/ccccccccccc", State: model.StatePending},
		{URL: "https://youtu.be/ddddddddddd", ContentID: "ddddddddddd", State: model.StateSucceeded, Archived: true},
	}
	for _, res := range results {
		if err := agg.Record(res); err != nil {
			t.Fatal(err)
		}
	}
	r.Complete(agg, cancelled)
	return r
}
