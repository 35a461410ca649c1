package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"incidash/internal/classify"
	"incidash/internal/jalali"
	"incidash/internal/record"
)

type GeneratorConfig struct {
	Scenario     string // "mild", "chaos" or "drift"
	Distribution string // "uniform" or "weibull"
	Count        int
	Now          time.Time
	Seed         int64
}

// Catalogues are the admin lists written next to the generated records.
type Catalogues struct {
	Statuses  []classify.StatusDef `yaml:"statuses"`
	Locations []record.Location    `yaml:"locations"`
}

var defaultCatalogues = Catalogues{
	Statuses: []classify.StatusDef{
		{ID: 11, Name: "ثبت اولیه"},
		{ID: 12, Name: "در حال بررسی"},
		{ID: 13, Name: "حل شده"},
		{ID: 14, Name: "رد شده"},
		{ID: 15, Name: "Escalated", Bucket: "onhold"},
	},
	Locations: []record.Location{
		{ID: 1, Name: "دفتر مرکزی"},
		{ID: 2, Name: "انبار شماره ۲"},
		{ID: 3, Name: "Data Center"},
		{ID: 4, Name: "شعبه اصفهان"},
		{ID: 5, Name: "Gate A"},
	},
}

var statusTexts = []string{"در انتظار پاسخ", "pending", "Closed", "resolved", "رد شد", "لغو", "نامشخص", "on hold", "برطرف شد"}

// Generate produces count incident records arriving roughly one every six
// hours and ending at cfg.Now. The chaos scenario mixes calendars, digit
// scripts, field names and free-text statuses the way real exports do.
func Generate(cfg GeneratorConfig) ([]record.Record, Catalogues) {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	recs := make([]record.Record, 0, cfg.Count)
	start := cfg.Now.Add(-time.Duration(cfg.Count*6) * time.Hour)

	for i := 0; i < cfg.Count; i++ {
		submitted := start.Add(time.Duration(i*6)*time.Hour + time.Duration(rng.Intn(300))*time.Minute)
		if submitted.After(cfg.Now) {
			submitted = cfg.Now
		}

		// Hours to first action and to resolution.
		k, lambda := 1.5, 6.0
		switch cfg.Scenario {
		case "chaos":
			k = 0.7
		case "drift":
			ratio := float64(i) / float64(max(cfg.Count, 1))
			lambda = 6.0 + 30.0*ratio
		}
		firstAction := 0.5 + rng.Float64()*8
		if cfg.Distribution == "weibull" {
			firstAction = weibullSample(rng, k, lambda)
		}
		resolution := firstAction + 2 + rng.Float64()*72
		if cfg.Scenario == "chaos" && rng.Float64() < 0.15 {
			resolution += 24 * 7 * (1 + rng.Float64()*3)
		}

		r := record.Record{
			"id":          i + 1,
			"title":       fmt.Sprintf("Incident %d", i+1),
			"category_id": 1 + rng.Intn(2),
			"priority_id": 1 + rng.Intn(3),
			"location_id": 1 + rng.Intn(len(defaultCatalogues.Locations)+1),
		}

		faAt := submitted.Add(time.Duration(firstAction * float64(time.Hour)))
		resAt := submitted.Add(time.Duration(resolution * float64(time.Hour)))
		statusID := 12
		switch {
		case resAt.Before(cfg.Now) && rng.Float64() < 0.85:
			statusID = 13
			r["closed_at"] = resAt.Format("2006-01-02 15:04:05")
		case resAt.Before(cfg.Now):
			statusID = 14
		case faAt.After(cfg.Now):
			statusID = 11
		}
		if faAt.Before(cfg.Now) {
			r["first_action_at"] = faAt.Format(time.RFC3339)
		}
		r["status_id"] = statusID
		r["submission_date"] = submitted.Format("2006-01-02 15:04:05")

		if cfg.Scenario == "chaos" {
			scramble(rng, r, submitted)
		}
		recs = append(recs, r)
	}

	return recs, defaultCatalogues
}

// scramble rewrites a clean record into one of the shapes seen in exports.
func scramble(rng *rand.Rand, r record.Record, submitted time.Time) {
	switch rng.Intn(8) {
	case 0:
		delete(r, "submission_date")
		r["incident_date_jalali"] = jalali.FormatTime(submitted, true)
	case 1:
		delete(r, "submission_date")
		r["createdAt"] = submitted.UnixMilli()
	case 2:
		delete(r, "submission_date")
		r["created_at_jalali"] = jalali.FormatTime(submitted, false) + submitted.Format(" 15:04")
	case 3:
		delete(r, "submission_date")
		r["event_date"] = submitted.Format("2006/01/02")
	case 4:
		delete(r, "submission_date")
	}

	if rng.Intn(3) == 0 {
		delete(r, "status_id")
		r["status_name"] = statusTexts[rng.Intn(len(statusTexts))]
	}
	if rng.Intn(4) == 0 {
		delete(r, "category_id")
		r["category_label"] = []string{"سایبری", "پدافند غیرعامل", "physical", "Cyber"}[rng.Intn(4)]
	}
	if rng.Intn(5) == 0 {
		delete(r, "location_id")
		r["location_name"] = "ساختمان " + jalali.ToEasternDigits(fmt.Sprint(1+rng.Intn(3)))
	}
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes the records as JSONL and the catalogues as YAML into outDir.
func Save(outDir string, recs []record.Record, cats Catalogues) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(outDir, "incidents.jsonl"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if err := writeYAML(filepath.Join(outDir, "statuses.yaml"), map[string]any{"statuses": cats.Statuses}); err != nil {
		return err
	}
	return writeYAML(filepath.Join(outDir, "locations.yaml"), map[string]any{"locations": cats.Locations})
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
