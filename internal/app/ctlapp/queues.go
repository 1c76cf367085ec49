package ctlapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/petnest/petnest/internal/client"
	"github.com/petnest/petnest/internal/console"
	"github.com/petnest/petnest/internal/transport/http/dto"
)

type queueCommand[T any] struct {
	name    string
	view    *console.QueueView[T]
	header  []string
	row     func(T) []string
	details func(T) [][2]string
	// decisions maps a subcommand to its decision.
	decisions map[string]console.Decision
	// noteFlag is the flag carrying the reason or notes; empty for none.
	noteFlag string
}

func runQueue[T any](ctx context.Context, a *App, qc queueCommand[T], args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s needs a subcommand", ErrUsage, qc.name)
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		return listQueue(ctx, a, qc, rest)
	case "show":
		fs := newFlagSet(qc.name+" show", a.out)
		id := fs.Int64("id", 0, "entity id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		item, err := qc.view.Details(ctx, *id)
		if errors.Is(err, console.ErrNotFound) {
			fmt.Fprintf(a.out, "%s %d not found\n", strings.TrimSuffix(qc.name, "s"), *id)
			return err
		}
		if err != nil {
			return err
		}
		writeDetails(a.out, qc.details(item))
		return nil
	}

	decision, ok := qc.decisions[sub]
	if !ok {
		return fmt.Errorf("%w: unknown %s subcommand %q", ErrUsage, qc.name, sub)
	}
	fs := newFlagSet(qc.name+" "+sub, a.out)
	id := fs.Int64("id", 0, "entity id")
	var note *string
	if qc.noteFlag != "" {
		note = fs.String(qc.noteFlag, "", qc.noteFlag)
	}
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("%w: -id is required", ErrUsage)
	}
	reason := ""
	if note != nil {
		reason = *note
	}

	updated, err := qc.view.Decide(ctx, *id, decision, reason)
	if err != nil {
		return err
	}
	writeDetails(a.out, qc.details(updated))
	return nil
}

func listQueue[T any](ctx context.Context, a *App, qc queueCommand[T], args []string) error {
	fs := newFlagSet(qc.name+" list", a.out)
	status := fs.String("status", "pending", "status filter, or all")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "page size")
	query := fs.String("q", "", "search")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := qc.view.Load(ctx, client.ListParams{Status: *status, Page: *page, PageSize: *limit, Query: *query})
	if err != nil {
		return err
	}
	if strings.TrimSpace(*query) != "" {
		items = qc.view.Search(*query)
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, qc.row(item))
	}
	writeTable(a.out, qc.header, rows)

	p := qc.view.Page()
	fmt.Fprintf(a.out, "page %d/%d, %d total\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func adQueue(a *App) queueCommand[dto.AdRequestResponse] {
	return queueCommand[dto.AdRequestResponse]{
		name:   "ads",
		view:   console.NewAdRequestQueue(a.api, a.notifier),
		header: []string{"ID", "BRAND", "EMAIL", "PLACEMENT", "STATUS", "CREATED"},
		row: func(r dto.AdRequestResponse) []string {
			return []string{fmtID(r.ID), r.BrandName, r.ContactEmail, r.Placement, r.Status, day(r.CreatedAt)}
		},
		details: func(r dto.AdRequestResponse) [][2]string {
			return [][2]string{
				{"id", fmtID(r.ID)},
				{"brand", r.BrandName},
				{"email", r.ContactEmail},
				{"phone", r.ContactPhone},
				{"placement", r.Placement},
				{"target", r.TargetURL},
				{"message", r.Message},
				{"status", r.Status},
				{"reason", r.RejectionReason},
			}
		},
		decisions: map[string]console.Decision{
			"approve": console.DecisionApprove,
			"reject":  console.DecisionReject,
		},
		noteFlag: "reason",
	}
}

func sellerQueue(a *App) queueCommand[dto.SellerResponse] {
	return queueCommand[dto.SellerResponse]{
		name:   "sellers",
		view:   console.NewSellerQueue(a.api, a.notifier),
		header: []string{"ID", "BUSINESS", "PHONE", "CITY", "STATUS", "CREATED"},
		row: func(s dto.SellerResponse) []string {
			return []string{fmtID(s.ID), s.BusinessName, s.Phone, s.City, s.Status, day(s.CreatedAt)}
		},
		details: func(s dto.SellerResponse) [][2]string {
			return [][2]string{
				{"id", fmtID(s.ID)},
				{"user", fmtID(s.UserID)},
				{"business", s.BusinessName},
				{"phone", s.Phone},
				{"city", s.City},
				{"status", s.Status},
				{"notes", s.Notes},
			}
		},
		decisions: map[string]console.Decision{
			"approve": console.DecisionApprove,
			"reject":  console.DecisionReject,
		},
		noteFlag: "notes",
	}
}

func petQueue(a *App) queueCommand[dto.PetResponse] {
	return queueCommand[dto.PetResponse]{
		name:   "pets",
		view:   console.NewPetQueue(a.api, a.notifier),
		header: []string{"ID", "NAME", "SELLER", "AGE", "PRICE", "STATUS"},
		row: func(p dto.PetResponse) []string {
			return []string{fmtID(p.ID), p.Name, fmtID(p.SellerID), strconv.Itoa(p.AgeMonths) + "m", price(p.PriceCents), p.Status}
		},
		details: func(p dto.PetResponse) [][2]string {
			return [][2]string{
				{"id", fmtID(p.ID)},
				{"name", p.Name},
				{"seller", fmtID(p.SellerID)},
				{"species", fmtID(p.SpeciesID)},
				{"gender", p.Gender},
				{"price", price(p.PriceCents)},
				{"images", strconv.Itoa(len(p.ImageURLs))},
				{"status", p.Status},
			}
		},
		decisions: map[string]console.Decision{
			"verify": console.DecisionVerify,
		},
	}
}

func reportQueue(a *App) queueCommand[dto.ReportResponse] {
	return queueCommand[dto.ReportResponse]{
		name:   "reports",
		view:   console.NewReportQueue(a.api, a.notifier),
		header: []string{"ID", "TARGET", "REASON", "REPORTER", "STATUS", "CREATED"},
		row: func(r dto.ReportResponse) []string {
			return []string{fmtID(r.ID), r.TargetType + "/" + fmtID(r.TargetID), r.Reason, fmtID(r.ReporterID), r.Status, day(r.CreatedAt)}
		},
		details: func(r dto.ReportResponse) [][2]string {
			return [][2]string{
				{"id", fmtID(r.ID)},
				{"target", r.TargetType + "/" + fmtID(r.TargetID)},
				{"reason", r.Reason},
				{"details", r.Details},
				{"status", r.Status},
				{"note", r.ResolutionNote},
			}
		},
		decisions: map[string]console.Decision{
			"resolve": console.DecisionResolve,
			"dismiss": console.DecisionDismiss,
		},
		noteFlag: "notes",
	}
}
