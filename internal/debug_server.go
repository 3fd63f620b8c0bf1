package internal

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key       string
	UserID    string
	Timestamp string
}

// StatsProvider feeds live runtime counters into the dashboard.
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer exposes the onboarding log and runtime counters on a local
// HTTP port. Read-only; meant for operators poking at a running instance.
func StartDebugServer(db *badger.DB, port int, statsProvider StatsProvider, log *slog.Logger) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "onboard:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapRow(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		log.Info("debug inspector listening", "addr", addr)
		_ = http.ListenAndServe(addr, mux)
	}()
}

func mapRow(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		UserID:    "--------",
		Timestamp: "--:--:--",
	}
	if len(key) > len("onboard:") {
		row.UserID = key[len("onboard:"):]
	}
	if ts, err := time.Parse(time.RFC3339, string(val)); err == nil {
		row.Timestamp = ts.Format("2006-01-02 15:04:05")
	}
	return row
}
