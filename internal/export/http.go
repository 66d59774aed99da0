// internal/export/http.go
package export

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/faulttrace/internal/record"
)

// deviceSummary is one row of the devices listing.
type deviceSummary struct {
	ID      string    `json:"id"`
	Status  string    `json:"status"`
	Cause   string    `json:"cause,omitempty"`
	ProbeAt time.Time `json:"probed_at"`
	Error   string    `json:"error,omitempty"`
}

// recordDoc is the full record rendering of one device.
type recordDoc struct {
	ID     string     `json:"id"`
	Found  bool       `json:"found"`
	Record *recordDTO `json:"record,omitempty"`
}

type recordDTO struct {
	Cause     string        `json:"cause"`
	Interrupt uint32        `json:"interrupt"`
	Corrupted bool          `json:"corrupted"`
	FailCount uint32        `json:"fail_count"`
	Line      int32         `json:"line"`
	File      string        `json:"file"`
	Trace     []string      `json:"trace"`
	Registers *registersDTO `json:"registers,omitempty"`
}

type registersDTO struct {
	R    []string `json:"r"`
	SP   string   `json:"sp"`
	LR   string   `json:"lr"`
	PC   string   `json:"pc"`
	XPSR string   `json:"xpsr"`
}

// Handler returns the HTTP surface: /metrics plus the JSON API.
func (e *Exporter) Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	r.HandleFunc("/api/v1/devices", e.handleDevices).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/devices/{id}/record", e.handleRecord).Methods(http.MethodGet)
	return r
}

func (e *Exporter) handleDevices(w http.ResponseWriter, _ *http.Request) {
	results := e.snapshot()
	sort.Slice(results, func(i, j int) bool { return results[i].DeviceID < results[j].DeviceID })

	out := make([]deviceSummary, 0, len(results))
	for _, res := range results {
		s := deviceSummary{ID: res.DeviceID, ProbeAt: res.At}
		switch {
		case res.Err != nil:
			s.Status = "unreachable"
			s.Error = res.Err.Error()
		case res.Found:
			s.Status = "fault"
			s.Cause = res.Rec.Cause.String()
		default:
			s.Status = "ok"
		}
		out = append(out, s)
	}

	writeJSON(w, http.StatusOK, out)
}

func (e *Exporter) handleRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	res, ok := e.result(id)
	if !ok {
		http.Error(w, "unknown device", http.StatusNotFound)
		return
	}
	if res.Err != nil {
		http.Error(w, res.Err.Error(), http.StatusBadGateway)
		return
	}

	doc := recordDoc{ID: id, Found: res.Found}
	if res.Found {
		doc.Record = makeRecordDTO(res.Rec)
	}
	writeJSON(w, http.StatusOK, doc)
}

func makeRecordDTO(rec record.Record) *recordDTO {
	dto := &recordDTO{
		Cause:     rec.Cause.String(),
		Interrupt: rec.Interrupt,
		Corrupted: rec.Corrupted,
		FailCount: rec.FailCount,
		Line:      rec.Line,
		File:      rec.File,
		Trace:     make([]string, 0, rec.TraceLen()),
	}
	for _, addr := range rec.Trace[:rec.TraceLen()] {
		dto.Trace = append(dto.Trace, hex32(addr))
	}

	if rec.HasRegisters() {
		regs := &registersDTO{
			R:    make([]string, 13),
			SP:   hex32(rec.Regs.R[record.RegSP]),
			LR:   hex32(rec.Regs.R[record.RegLR]),
			PC:   hex32(rec.Regs.R[record.RegPC]),
			XPSR: hex32(rec.Regs.XPSR),
		}
		for i := 0; i < 13; i++ {
			regs.R[i] = hex32(rec.Regs.R[i])
		}
		dto.Registers = regs
	}
	return dto
}

func hex32(v uint32) string { return fmt.Sprintf("%#010x", v) }

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
