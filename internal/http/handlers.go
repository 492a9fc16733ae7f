package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/category"
	"finanzas/internal/core"
	"finanzas/internal/format"
	"finanzas/internal/log"
	"finanzas/internal/report"
	"finanzas/internal/service"
	"finanzas/internal/store"
)

// summaryResponse adds display formatting on top of the service summary.
type summaryResponse struct {
	service.Summary
	Currency         core.Currency `json:"currency"`
	BalanceFormatted string        `json:"balance_formatted"`
	BalanceCompact   string        `json:"balance_compact"`
}

func (s *Server) ledgerFor(w http.ResponseWriter, r *http.Request) (*service.Ledger, bool) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return nil, false
	}

	ledger, err := s.sessions.For(r.Context(), owner)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load ledger",
			log.FieldError, err,
			log.FieldOwnerID, owner)
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return nil, false
	}
	return ledger, true
}

// ownerCurrency resolves the owner's display currency, falling back to
// the configured default when no profile exists.
func (s *Server) ownerCurrency(r *http.Request, owner string) core.Currency {
	profile, err := s.records.GetProfile(r.Context(), owner)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.WarnContext(r.Context(), "Failed to load profile",
				log.FieldError, err,
				log.FieldOwnerID, owner)
		}
		return s.defaultCurrency
	}
	return profile.Currency
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	currency := s.ownerCurrency(r, owner)

	if cached, ok := s.summaryCache.Get(owner); ok {
		writeJSON(w, http.StatusOK, s.formatSummary(cached, currency))
		return
	}

	ledger, err := s.sessions.For(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	summary, err := service.BuildSummary(r.Context(), ledger, s.catalog, time.Now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to build summary",
			log.FieldError, err,
			log.FieldOwnerID, owner)
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	s.summaryCache.Set(owner, summary)

	writeJSON(w, http.StatusOK, s.formatSummary(summary, currency))
}

func (s *Server) formatSummary(summary service.Summary, currency core.Currency) summaryResponse {
	balance, _ := summary.Balance.Float64()
	return summaryResponse{
		Summary:          summary,
		Currency:         currency,
		BalanceFormatted: format.Currency(balance, currency),
		BalanceCompact:   format.Compact(balance),
	}
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}

	period := report.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = report.PeriodMonth
	}
	if !period.Valid() {
		writeError(w, http.StatusBadRequest, "invalid period")
		return
	}

	start, err := parseDateParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filtered := report.FilterByPeriod(ledger.Transactions(), period, time.Now(), start, end)
	totals := report.Sum(filtered)

	writeJSON(w, http.StatusOK, map[string]any{
		"period":       period,
		"totals":       totals,
		"balance":      totals.Balance(),
		"transactions": filtered,
		"by_date":      report.GroupByDate(filtered),
	})
}

func (s *Server) handleDailySeries(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.DailySeries(ledger.Transactions(), time.Now()))
}

func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.MonthlySeries(ledger.Transactions()))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}

	year, month := parseYearMonth(r)

	events, err := s.records.ListEvents(r.Context(), ledger.Owner())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	var monthEvents []core.CalendarEvent
	for _, e := range events {
		if e.Date.Year() == year && e.Date.Month() == month {
			monthEvents = append(monthEvents, e)
		}
	}

	// Net transaction total per day of the displayed month.
	dayTotals := make(map[string]decimal.Decimal)
	for _, g := range report.GroupByDate(ledger.Transactions()) {
		if g.Date.Year() == year && g.Date.Month() == month {
			dayTotals[g.Date.String()] = report.DayTotal(g.Transactions, g.Date)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":           year,
		"month":          int(month),
		"month_label":    report.MonthLabel(month),
		"weekday_labels": report.WeekdayLabels,
		"grid":           report.MonthGrid(year, month),
		"events_by_date": report.EventsByDate(monthEvents),
		"day_totals":     dayTotals,
	})
}

func (s *Server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": category.AccountTypes,
		"by_account": report.GroupByAccount(
			ledger.Transactions(), category.AccountTypes),
	})
}

func (s *Server) handleAccountTransactions(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}

	accountType := r.PathValue("type")
	txs := report.AccountTransactions(ledger.Transactions(), accountType)
	totals := report.Sum(txs)

	writeJSON(w, http.StatusOK, map[string]any{
		"account":      accountType,
		"totals":       totals,
		"balance":      totals.Balance(),
		"transactions": txs,
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ledger.Transactions())
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}

	var f core.TransactionForm
	if err := readJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := ledger.AddTransaction(r.Context(), f)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to create transaction",
			log.FieldError, err,
			log.FieldOwnerID, ledger.Owner())
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	s.summaryCache.Delete(ledger.Owner())
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}

	if err := ledger.RemoveTransaction(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.summaryCache.Delete(ledger.Owner())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	resolver, err := s.catalog.ResolverFor(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, resolver.Categories())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	var f core.CategoryForm
	if err := readJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.catalog.Add(r.Context(), owner, f)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	s.summaryCache.Delete(owner)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	id := r.PathValue("id")
	cat, found, err := s.findCategory(r, owner, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	if err := s.catalog.Remove(r.Context(), cat); err != nil {
		if errors.Is(err, core.ErrDefaultCategory) {
			writeError(w, http.StatusForbidden, "default categories cannot be deleted")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	s.summaryCache.Delete(owner)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) findCategory(r *http.Request, owner, id string) (core.Category, bool, error) {
	resolver, err := s.catalog.ResolverFor(r.Context(), owner)
	if err != nil {
		return core.Category{}, false, err
	}
	for _, cat := range resolver.Categories() {
		if cat.ID == id {
			return cat, true, nil
		}
	}
	return core.Category{}, false, nil
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	investments, err := s.records.ListInvestments(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load investments")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"investments": investments,
		"total":       report.InvestmentsTotal(investments),
	})
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	var f core.InvestmentForm
	if err := readJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.records.CreateInvestment(r.Context(), owner, f)
	if err != nil {
		s.writeCreateError(w, r, owner, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.records.DeleteInvestment)
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	services, err := s.records.ListServices(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load services")
		return
	}
	writeJSON(w, http.StatusOK, report.SortServicesByDay(services))
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	var f core.ServiceForm
	if err := readJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.records.CreateService(r.Context(), owner, f)
	if err != nil {
		s.writeCreateError(w, r, owner, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.records.DeleteService)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	events, err := s.records.ListEvents(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	var f core.EventForm
	if err := readJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.records.CreateEvent(r.Context(), owner, f)
	if err != nil {
		s.writeCreateError(w, r, owner, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.records.DeleteEvent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	profile, err := s.records.GetProfile(r.Context(), owner)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, core.Profile{ID: owner, Currency: s.defaultCurrency})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	var body struct {
		FullName string        `json:"full_name"`
		Currency core.Currency `json:"currency"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := core.Profile{
		ID:       owner,
		FullName: body.FullName,
		Currency: body.Currency,
	}
	if err := s.records.SaveProfile(r.Context(), profile); err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// writeCreateError maps a create failure to the right status code.
func (s *Server) writeCreateError(w http.ResponseWriter, r *http.Request, owner string, err error) {
	if isValidationError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.ErrorContext(r.Context(), "Failed to create record",
		log.FieldError, err,
		log.FieldOwnerID, owner)
	writeError(w, http.StatusInternalServerError, "failed to create record")
}

// deleteByID maps a delete-by-id store call to the right status code.
func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id string) error) {
	if owner := ownerFromRequest(r); owner == "" {
		writeError(w, http.StatusBadRequest, "missing owner")
		return
	}

	if err := del(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidDay),
		errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyTitle):
		return true
	}
	return false
}
