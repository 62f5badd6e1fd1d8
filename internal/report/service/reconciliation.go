package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

// Reconciliation computes per-gym dues over a month or explicit range.
// Totals describe the full dataset regardless of the requested page.
func (s *Service) Reconciliation(ctx context.Context, q domain.ReconciliationQuery) (domain.ReconciliationResponse, error) {
	dataset, srt, err := s.sortedReconciliation(ctx, q)
	if err != nil {
		return domain.ReconciliationResponse{}, err
	}

	pageItems, pagination := paginate(dataset.Items, q.Page, q.PageSize, listPageSize)
	return domain.ReconciliationResponse{
		Range:      dataset.Range,
		Pagination: pagination,
		Sort:       srt,
		Items:      pageItems,
		Totals:     dataset.Totals,
	}, nil
}

// ReconciliationExport returns the full unpaginated dataset for the
// CSV/PDF exporters, sorted the same way the listing would be.
func (s *Service) ReconciliationExport(ctx context.Context, q domain.ReconciliationQuery) (domain.ReconciliationDataset, error) {
	dataset, _, err := s.sortedReconciliation(ctx, q)
	return dataset, err
}

func (s *Service) sortedReconciliation(ctx context.Context, q domain.ReconciliationQuery) (domain.ReconciliationDataset, domain.Sort, error) {
	mr, err := daterange.ResolveMonth(q.Month, q.From, q.To, s.clock.Now())
	if err != nil {
		return domain.ReconciliationDataset{}, domain.Sort{}, err
	}

	sortBy := q.SortBy
	if sortBy != domain.RecoSortGymName && sortBy != domain.RecoSortVisits && sortBy != domain.RecoSortDues {
		sortBy = domain.RecoSortDues
	}
	order := q.Order
	if order != domain.OrderAsc {
		order = domain.OrderDesc
	}

	// Cache the dataset keyed on the window only; sorting and paging are
	// cheap in-memory passes over the cached copy.
	window := domain.ReconciliationQuery{Month: q.Month, From: q.From, To: q.To}
	key := cache.Key("report:reconciliation", window)
	dataset, err := cache.GetOrCompute(ctx, s.cache, key, heavyTTL, func(ctx context.Context) (domain.ReconciliationDataset, error) {
		return s.buildReconciliation(ctx, mr)
	})
	if err != nil {
		return domain.ReconciliationDataset{}, domain.Sort{}, err
	}

	sortReconciliation(dataset.Items, sortBy, order)
	return dataset, domain.Sort{By: sortBy, Order: order}, nil
}

func (s *Service) buildReconciliation(ctx context.Context, mr daterange.MonthRange) (domain.ReconciliationDataset, error) {
	f := visitdomain.Filter{From: mr.FromStart, ToExclusive: mr.ToExclusive}
	rows, err := s.repo.GroupByGym(ctx, f)
	if err != nil {
		return domain.ReconciliationDataset{}, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.GymID)
	}
	gyms, err := s.repo.GymsByID(ctx, ids)
	if err != nil {
		return domain.ReconciliationDataset{}, err
	}

	items := make([]domain.ReconciliationItem, 0, len(rows))
	totals := domain.ReconciliationTotals{}
	for _, row := range rows {
		gym := gyms[row.GymID]
		dues := 0.0
		if gym.VisitPrice != nil {
			dues = round2(float64(row.Visits) * *gym.VisitPrice)
		}
		items = append(items, domain.ReconciliationItem{
			GymID:         row.GymID,
			GymName:       gymLabel(gyms, row.GymID),
			VisitPrice:    gym.VisitPrice,
			Visits:        row.Visits,
			Dues:          dues,
			InvoiceNumber: fmt.Sprintf("INV-%s-%d", mr.InvoiceMonthTag, row.GymID),
		})
		totals.TotalVisits += row.Visits
		totals.TotalDues += dues
	}
	totals.TotalDues = round2(totals.TotalDues)

	return domain.ReconciliationDataset{
		Range:           rangeInfo(mr.Range),
		Items:           items,
		Totals:          totals,
		InvoiceMonthTag: mr.InvoiceMonthTag,
	}, nil
}

// sortReconciliation orders items in place. Items arrive in gym-id
// ascending order, so the stable sort breaks ties toward the lower id.
func sortReconciliation(items []domain.ReconciliationItem, sortBy, order string) {
	sort.SliceStable(items, func(i, j int) bool {
		var less, equal bool
		switch sortBy {
		case domain.RecoSortGymName:
			less = items[i].GymName < items[j].GymName
			equal = items[i].GymName == items[j].GymName
		case domain.RecoSortVisits:
			less = items[i].Visits < items[j].Visits
			equal = items[i].Visits == items[j].Visits
		default:
			less = items[i].Dues < items[j].Dues
			equal = items[i].Dues == items[j].Dues
		}
		if order == domain.OrderDesc {
			return !less && !equal
		}
		return less
	})
}
