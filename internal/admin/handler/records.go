package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/notify"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/query"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/sanctuary"
)

type searchRequest struct {
	term    string
	filters []query.Filter
	sort    *query.Sort
	page    *query.Page
	cfg     query.Config
}

func parseSearch(c *gin.Context, resource string) (searchRequest, error) {
	req := searchRequest{
		term: c.Query("q"),
		cfg: query.Config{
			SearchableFields: sanctuary.Searchable(resource),
			ExactMatch:       c.Query("exact") == "true",
			CaseSensitive:    c.Query("caseSensitive") == "true",
		},
	}
	if fields := c.Query("searchFields"); fields != "" {
		req.cfg.SearchableFields = splitList(fields)
	}
	for _, raw := range c.QueryArray("filter") {
		f, err := query.ParseFilter(raw)
		if err != nil {
			return req, err
		}
		req.filters = append(req.filters, f)
	}
	if field := c.Query("sort"); field != "" {
		dir := query.Direction(c.DefaultQuery("dir", string(query.Asc)))
		if dir != query.Asc && dir != query.Desc {
			return req, fmt.Errorf("invalid sort direction %q", dir)
		}
		req.sort = &query.Sort{Field: field, Direction: dir, Type: query.ValueType(c.Query("sortType"))}
	}
	if ps := c.Query("pageSize"); ps != "" {
		size, err := strconv.Atoi(ps)
		if err != nil || size < 0 {
			return req, fmt.Errorf("invalid pageSize %q", ps)
		}
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil {
			return req, fmt.Errorf("invalid page %q", c.Query("page"))
		}
		req.page = &query.Page{Page: page, PageSize: size}
	}
	return req, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handler) search(c *gin.Context, resource string) (query.Result[records.Record], bool) {
	req, err := parseSearch(c, resource)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return query.Result[records.Record]{}, false
	}
	engine := query.New(h.store.GetAll(c.Request.Context(), resource), req.cfg)
	return engine.Search(req.term, req.filters, req.sort, req.page), true
}

func (h *Handler) list(c *gin.Context) {
	res, ok := h.search(c, c.Param("resource"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) suggestions(c *gin.Context) {
	resource := c.Param("resource")
	max, _ := strconv.Atoi(c.DefaultQuery("max", "5"))
	engine := query.New(h.store.GetAll(c.Request.Context(), resource), query.Config{SearchableFields: sanctuary.Searchable(resource)})
	c.JSON(http.StatusOK, gin.H{"suggestions": engine.Suggestions(c.Query("q"), max)})
}

func (h *Handler) get(c *gin.Context) {
	rec, ok := h.store.GetByID(c.Request.Context(), c.Param("resource"), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) create(c *gin.Context) {
	resource := c.Param("resource")
	var body records.Record
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errs := sanctuary.Validate(resource, body); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": errs})
		return
	}
	rec, err := h.store.Create(c.Request.Context(), resource, body)
	if err != nil {
		h.storeFailure(c, resource, err)
		return
	}
	h.bus.Success(fmt.Sprintf("Created %s", rec.ID()), notify.Options{Title: resource})
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) update(c *gin.Context) {
	ctx := c.Request.Context()
	resource, id := c.Param("resource"), c.Param("id")
	var body records.Record
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	existing, ok := h.store.GetByID(ctx, resource, id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	merged := existing.Clone()
	for k, v := range body {
		merged[k] = v
	}
	if errs := sanctuary.Validate(resource, merged); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": errs})
		return
	}
	rec, err := h.store.Update(ctx, resource, id, body)
	if err != nil {
		h.storeFailure(c, resource, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.bus.Success(fmt.Sprintf("Updated %s", id), notify.Options{Title: resource})
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) delete(c *gin.Context) {
	resource, id := c.Param("resource"), c.Param("id")
	ok, err := h.store.Delete(c.Request.Context(), resource, id)
	if err != nil {
		h.storeFailure(c, resource, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.bus.Success(fmt.Sprintf("Deleted %s", id), notify.Options{Title: resource})
	c.Status(http.StatusNoContent)
}

func (h *Handler) bulkDelete(c *gin.Context) {
	resource := c.Param("resource")
	var req struct {
		IDs []string `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.store.DeleteMultiple(c.Request.Context(), resource, req.IDs)
	if err != nil {
		h.storeFailure(c, resource, err)
		return
	}
	if n > 0 {
		h.bus.Success(fmt.Sprintf("Deleted %d of %d records", n, len(req.IDs)), notify.Options{Title: resource})
	} else {
		h.bus.Warning("No matching records to delete", notify.Options{Title: resource})
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
