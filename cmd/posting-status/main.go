// Command posting-status prints whether postings are publicly listed and why,
// using the same rule as the public listing. With -drift it also checks that
// the SQL listing and the in-memory rule select the same postings.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/config"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/database"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/service"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/store"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

var (
	ids        = flag.String("id", "", "comma separated posting ids; every posting when empty")
	kind       = flag.String("kind", "", "only postings of this kind (JOB or INTERNSHIP)")
	visibility = flag.String("internship-visibility", "", "override INTERNSHIP_VISIBILITY (status-only or moderated)")
	drift      = flag.Bool("drift", false, "compare the SQL listing with the visibility rule")
	hiddenOnly = flag.Bool("hidden", false, "print only postings that are not listed")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	logx.Must(err)
	rule := cfg.Visibility
	if *visibility != "" {
		v, err := workflow.ParseInternshipVisibility(*visibility)
		logx.Must(err)
		rule = workflow.VisibilityRule{Internship: v}
	}

	filter := store.PostingFilter{}
	if *kind != "" {
		k, err := workflow.ParsePostingKind(*kind)
		logx.Must(err)
		filter.Kind = k
	}

	db, err := database.GetMainDB()
	logx.Must(errors.Wrap(err, "database failed to initialize"))
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	postings := store.NewPostingStore(db)

	selected, err := load(ctx, postings, filter, *ids)
	logx.Must(err)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tSTATUS\tMODERATION\tLISTED\tREASON")
	for _, p := range selected {
		r := service.Report(rule, p)
		if *hiddenOnly && r.Visible {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n", r.PostingID, r.Kind, r.Status, r.ModerationStatus, r.Visible, r.Reason)
	}
	logx.Must(w.Flush())

	if !*drift {
		return
	}
	mismatches, err := checkDrift(ctx, postings, filter, rule)
	logx.Must(err)
	if len(mismatches) == 0 {
		fmt.Printf("\nno drift: listing and rule agree (internship visibility %s)\n", rule.Internship)
		return
	}
	fmt.Printf("\n%d postings where listing and rule disagree:\n", len(mismatches))
	for _, m := range mismatches {
		fmt.Println("  " + m)
	}
	os.Exit(2)
}

func load(ctx context.Context, postings *store.PostingStore, filter store.PostingFilter, rawIDs string) ([]model.Posting, error) {
	if strings.TrimSpace(rawIDs) == "" {
		return all(ctx, postings, filter)
	}

	var out []model.Posting
	for _, raw := range strings.Split(rawIDs, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, errors.Errorf("invalid posting id %q", raw)
		}
		p, err := postings.GetByID(ctx, uint(id))
		if err != nil {
			return nil, errors.Wrapf(err, "posting %d", id)
		}
		out = append(out, p)
	}
	return out, nil
}

// all pages through every posting matching filter.
func all(ctx context.Context, postings *store.PostingStore, filter store.PostingFilter) ([]model.Posting, error) {
	var out []model.Posting
	filter.Page = store.Page{Page: 1, Limit: store.MaxLimit}
	for {
		page, total, err := postings.Query(ctx, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) == 0 || int64(len(out)) >= total {
			return out, nil
		}
		filter.Page.Page++
	}
}

func checkDrift(ctx context.Context, postings *store.PostingStore, filter store.PostingFilter, rule workflow.VisibilityRule) ([]string, error) {
	everything, err := all(ctx, postings, filter)
	if err != nil {
		return nil, err
	}
	filter.Public = true
	filter.Visibility = rule
	listed, err := all(ctx, postings, filter)
	if err != nil {
		return nil, err
	}

	inListing := make(map[uint]bool, len(listed))
	for _, p := range listed {
		inListing[p.ID] = true
	}

	var mismatches []string
	for _, p := range everything {
		want := rule.IsPubliclyVisible(p.Kind, p.Status, p.ModerationStatus)
		if want != inListing[p.ID] {
			mismatches = append(mismatches, fmt.Sprintf("posting %d (%s %s %s): rule says %t, listing says %t",
				p.ID, p.Kind, p.Status, p.ModerationStatus, want, inListing[p.ID]))
		}
	}
	return mismatches, nil
}
