package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/Adriano-luizello/Profeta-sub001/internal/recommendation"
)

func runApp(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}

	if err := app.Run(append([]string{"profeta"}, args...)); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRecommendCommand(t *testing.T) {
	inputs := writeFile(t, "inputs.json", `[{"product_id":"p1","product_name":"Widget","avg_daily_demand":15,"current_stock":80}]`)

	var recs []recommendation.GeneratedRecommendation
	if err := json.Unmarshal([]byte(runApp(t, "recommend", inputs)), &recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 1 || recs[0].Action != recommendation.ActionUrgentRestock || *recs[0].RecommendedQuantity != 600 {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}
}

func TestUnpivotCommand(t *testing.T) {
	sheet := writeFile(t, "mensal.csv", "produto,categoria,2026-01,2026-02,2026-03\nCaneca,Cozinha,31,0,\nPrato,Cozinha,10,20,5\n")

	var result struct {
		Stats struct {
			OriginalRows int `json:"original_rows"`
			ResultRows   int `json:"result_rows"`
			SkippedEmpty int `json:"skipped_empty"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(runApp(t, "unpivot", sheet)), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Stats.OriginalRows != 2 || result.Stats.ResultRows != 4 || result.Stats.SkippedEmpty != 2 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	sheet := writeFile(t, "vendas.csv", "date;product;quantity;price;supplier;stock\n"+
		"01/03/2026;Widget;10;2,5;Acme;100\n"+
		"02/03/2026;Widget;20;2,5;Acme;80\n")

	out := runApp(t, "analyze", "--as-of", "2026-03-15", sheet)
	for _, want := range []string{`"completed": 1`, `"product_name": "Widget"`, `"action": "urgent_restock"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %s, got %s", want, out)
		}
	}
}
