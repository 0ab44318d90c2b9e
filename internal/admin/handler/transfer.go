package handler

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/notify"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/sanctuary"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/tabular"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/metrics"
)

// render builds an export of the records selected by the request's search
// parameters.
func (h *Handler) render(c *gin.Context) (tabular.Format, tabular.Artifact, bool) {
	resource := c.Param("resource")
	format, err := tabular.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", tabular.Artifact{}, false
	}
	res, ok := h.search(c, resource)
	if !ok {
		return "", tabular.Artifact{}, false
	}
	opts := tabular.ExportOptions{
		Fields:        splitList(c.Query("fields")),
		OmitHeaders:   c.Query("headers") == "false",
		BooleanFormat: tabular.BoolFormat(c.Query("bool")),
		DateFormat:    tabular.DateFormat(c.Query("date")),
		Filename:      c.DefaultQuery("filename", fmt.Sprintf("%s-%s.%s", resource, time.Now().UTC().Format("2006-01-02"), format)),
	}
	a, err := tabular.Export(res.Data, format, opts)
	if err != nil {
		h.storeFailure(c, resource, err)
		return "", tabular.Artifact{}, false
	}
	return format, a, true
}

func (h *Handler) export(c *gin.Context) {
	format, a, ok := h.render(c)
	if !ok {
		return
	}
	metrics.ExportJobs.WithLabelValues(string(format), "download").Inc()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	c.Data(http.StatusOK, a.ContentType, a.Body)
}

func (h *Handler) storeExport(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage is not configured"})
		return
	}
	resource := c.Param("resource")
	format, a, ok := h.render(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	key, err := tabular.Deliver(ctx, h.exports, format, a)
	if err != nil {
		h.storeFailure(c, resource, err)
		return
	}
	out := gin.H{"key": key, "name": a.Name, "size": len(a.Body)}
	if h.urls != nil {
		if url, err := h.urls.GetPresignedURL(ctx, key); err == nil {
			out["url"] = url
		} else {
			h.log.Warnf("presign %s: %v", key, err)
		}
	}
	h.bus.Success(fmt.Sprintf("Exported %s to %s", a.Name, h.exports.Kind()), notify.Options{Title: resource})
	c.JSON(http.StatusCreated, out)
}

// importRecords parses the request body and loads the rows through
// sanctuary.Import.
func (h *Handler) importRecords(c *gin.Context) {
	ctx := c.Request.Context()
	resource := c.Param("resource")
	format, err := tabular.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var parsed tabular.ImportResult
	switch format {
	case tabular.FormatJSON:
		parsed = tabular.ParseJSON(string(body))
	default:
		opts := tabular.CSVOptions{
			NoHeader:       c.Query("header") == "false",
			KeepEmptyLines: c.Query("skipEmpty") == "false",
			Fields:         splitList(c.Query("fields")),
		}
		if d := c.Query("delimiter"); d != "" {
			if d == `\t` {
				d = "\t"
			}
			opts.Delimiter, _ = utf8.DecodeRuneInString(d)
		}
		parsed = tabular.ParseCSV(string(body), opts)
	}

	resp := sanctuary.Import(ctx, h.store, resource, parsed, c.Query("dryRun") == "true")

	switch {
	case resp.ErrorCount == 0:
		h.bus.Success(fmt.Sprintf("Imported %d records", resp.SuccessCount), notify.Options{Title: resource})
	case resp.SuccessCount > 0:
		h.bus.Warning(fmt.Sprintf("Imported %d records, %d rows failed", resp.SuccessCount, resp.ErrorCount), notify.Options{Title: resource})
	default:
		h.bus.Error(fmt.Sprintf("Import failed: %d rows rejected", resp.ErrorCount), notify.Options{Title: resource})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) exportBackup(c *gin.Context) {
	doc, err := h.store.ExportData(c.Request.Context())
	if err != nil {
		h.storeFailure(c, "backup", err)
		return
	}
	name := fmt.Sprintf("harmony-admin-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", doc)
}

func (h *Handler) importBackup(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.ImportData(c.Request.Context(), body); err != nil {
		h.bus.Error("Backup could not be restored", notify.Options{Title: "backup"})
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.bus.Success("Backup restored", notify.Options{Title: "backup"})
	c.JSON(http.StatusOK, gin.H{"restored": true})
}
