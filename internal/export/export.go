// Package export renders orders and sweep results as flat records for
// CSV, JSON and plain-text output.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"darkstore-sim/internal/domain"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or csv)", s)
	}
}

// OrderRow is one order flattened for export. Unset timestamps and ids
// are nil.
type OrderRow struct {
	OrderID           int      `json:"order_id"`
	Zone              string   `json:"zone"`
	Status            string   `json:"status"`
	PlacedAt          float64  `json:"placed_at"`
	StoreArrivalAt    *float64 `json:"store_arrival_at"`
	CustomerArrivalAt *float64 `json:"customer_arrival_at"`
	DeliveryMinutes   *float64 `json:"delivery_minutes"`
	AgentID           *int     `json:"agent_id"`
	StoreID           *int     `json:"store_id"`
	Lat               float64  `json:"lat"`
	Lng               float64  `json:"lng"`
}

var OrderHeader = []string{
	"order_id", "zone", "status", "placed_at", "store_arrival_at", "customer_arrival_at",
	"delivery_minutes", "agent_id", "store_id", "lat", "lng",
}

var SweepHeader = []string{
	"agent_count", "avg_generated", "avg_delivered", "avg_delivery_minutes", "avg_utilization_pct",
	"sla_pct", "completion_pct", "cost_per_order", "recommended",
}

func OrderRows(orders []domain.Order) []OrderRow {
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, OrderRow{
			OrderID:           o.ID,
			Zone:              o.Zone,
			Status:            string(o.Status),
			PlacedAt:          o.PlacedAt,
			StoreArrivalAt:    o.StoreArrivalAt,
			CustomerArrivalAt: o.CustomerArrivalAt,
			DeliveryMinutes:   o.DeliveryMinutes,
			AgentID:           o.AgentID,
			StoreID:           o.StoreID,
			Lat:               o.Position.Lat,
			Lng:               o.Position.Lng,
		})
	}
	return rows
}

// Record returns the row in OrderHeader column order.
func (r OrderRow) Record() []string {
	return []string{
		strconv.Itoa(r.OrderID),
		r.Zone,
		r.Status,
		formatFloat(r.PlacedAt, 2),
		optFloat(r.StoreArrivalAt, 2),
		optFloat(r.CustomerArrivalAt, 2),
		optFloat(r.DeliveryMinutes, 2),
		optInt(r.AgentID),
		optInt(r.StoreID),
		formatFloat(r.Lat, 6),
		formatFloat(r.Lng, 6),
	}
}

// SweepRecord returns a sweep row in SweepHeader column order.
func SweepRecord(r domain.SweepRow) []string {
	return []string{
		strconv.Itoa(r.AgentCount),
		formatFloat(r.AvgGenerated, 2),
		formatFloat(r.AvgDelivered, 2),
		formatFloat(r.AvgDeliveryMinutes, 2),
		formatFloat(r.AvgUtilizationPct, 2),
		formatFloat(r.SLAPct, 2),
		formatFloat(r.CompletionPct, 2),
		optFloat(r.CostPerOrder, 2),
		strconv.FormatBool(r.Recommended),
	}
}

func WriteOrdersCSV(w io.Writer, orders []domain.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OrderHeader); err != nil {
		return fmt.Errorf("write orders csv: header: %w", err)
	}
	for _, r := range OrderRows(orders) {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("write orders csv: order %d: %w", r.OrderID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write orders csv: flush: %w", err)
	}
	return nil
}

func WriteSweepCSV(w io.Writer, rows []domain.SweepRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SweepHeader); err != nil {
		return fmt.Errorf("write sweep csv: header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(SweepRecord(r)); err != nil {
			return fmt.Errorf("write sweep csv: agents=%d: %w", r.AgentCount, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write sweep csv: flush: %w", err)
	}
	return nil
}

// WriteSweep renders a report in the requested format.
func WriteSweep(w io.Writer, report *domain.SweepReport, f Format) error {
	switch f {
	case FormatCSV:
		return WriteSweepCSV(w, report.Rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("write sweep json: %w", err)
		}
		return nil
	default:
		_, err := io.WriteString(w, FormatSweepText(report))
		return err
	}
}

// FormatSweepText returns an aligned table with the recommended row marked.
func FormatSweepText(report *domain.SweepReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-7s %9s %9s %9s %7s %7s %8s %10s\n",
		"agents", "generated", "delivered", "avg_min", "util%", "sla%", "compl%", "cost/order"))
	for _, r := range report.Rows {
		cost := "n/a"
		if r.CostPerOrder != nil {
			cost = formatFloat(*r.CostPerOrder, 2)
		}
		mark := ""
		if r.Recommended {
			mark = "  <= recommended"
		}
		sb.WriteString(fmt.Sprintf("%-7d %9.1f %9.1f %9.1f %7.1f %7.1f %8.1f %10s%s\n",
			r.AgentCount, r.AvgGenerated, r.AvgDelivered, r.AvgDeliveryMinutes,
			r.AvgUtilizationPct, r.SLAPct, r.CompletionPct, cost, mark))
	}

	sb.WriteString(fmt.Sprintf("\nRecommended agents: %d", report.Recommended))
	switch report.Relaxed {
	case domain.RelaxCompletion:
		sb.WriteString(" (completion minimum relaxed)")
	case domain.RelaxAll:
		sb.WriteString(" (no row met the targets)")
	}
	sb.WriteString("\n")

	return sb.String()
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func optFloat(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v, prec)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
