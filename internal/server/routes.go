package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/workdeck/workdeck/internal/card"
	"github.com/workdeck/workdeck/internal/item"
	"github.com/workdeck/workdeck/internal/project"
	"github.com/workdeck/workdeck/internal/settings"
	"github.com/workdeck/workdeck/internal/snapshot"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, opts Opts) {
	db := opts.DB

	api := router.Group("/api")

	api.GET("/projects", handleProjectList(db))
	api.POST("/projects", handleProjectCreate(db))
	api.GET("/projects/:id", handleProjectGet(db))
	api.PATCH("/projects/:id", handleProjectUpdate(db))
	api.DELETE("/projects/:id", handleProjectDelete(db))
	api.GET("/projects/:id/items", handleItemList(db))
	api.POST("/projects/:id/items/reorder", handleItemReorder(db))
	api.GET("/projects/:id/cards", handleCardList(db))
	api.POST("/projects/:id/cards/restack", handleCardRestack(db))

	api.POST("/items", handleItemCreate(db))
	api.GET("/items/:id", handleItemGet(db))
	api.PATCH("/items/:id", handleItemUpdate(db))
	api.DELETE("/items/:id", handleItemDelete(db))

	api.POST("/cards", handleCardCreate(db, opts.MaxCardBytes))
	api.GET("/cards/:id", handleCardGet(db))
	api.PATCH("/cards/:id", handleCardUpdate(db, opts.MaxCardBytes))
	api.DELETE("/cards/:id", handleCardDelete(db))
	api.POST("/cards/:id/front", handleCardFront(db))

	api.GET("/settings", handleSettingList(db))
	api.GET("/settings/:key", handleSettingGet(db))
	api.PUT("/settings/:key", handleSettingPut(db))
	api.DELETE("/settings/:key", handleSettingDelete(db))

	api.GET("/export", handleExport(db))
	api.POST("/import", handleImport(db))

	api.GET("/changes", handleChanges(opts))
	api.POST("/changes/ack", handleChangesAck(opts))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func handleProjectList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := project.List(db)
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}

func handleProjectCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req project.CreateOpts
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		p, err := project.Create(db, req)
		if err != nil {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func handleProjectGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := project.Get(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		if p == nil {
			notFound(c)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleProjectUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req project.UpdateOpts
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		p, err := project.Update(db, c.Param("id"), req)
		if err != nil {
			badRequest(c, err)
			return
		}
		if p == nil {
			notFound(c)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleProjectDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := project.Delete(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		if !ok {
			notFound(c)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleItemList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := item.ListByProject(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// idListRequest carries an ordered list of child IDs for reorder and
// restack calls.
type idListRequest struct {
	IDs []string `json:"ids"`
}

func handleItemReorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req idListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := item.Reorder(db, c.Param("id"), req.IDs); err != nil {
			serverError(c, err)
			return
		}
		items, err := item.ListByProject(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func handleItemCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req item.CreateOpts
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		it, err := item.Create(db, req)
		if err != nil {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusCreated, it)
	}
}

func handleItemGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		it, err := item.Get(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		if it == nil {
			notFound(c)
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

func handleItemUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req item.UpdateOpts
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		it, err := item.Update(db, c.Param("id"), req)
		if err != nil {
			badRequest(c, err)
			return
		}
		if it == nil {
			notFound(c)
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

func handleItemDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := item.Delete(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		if !ok {
			notFound(c)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleCardList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cards, err := card.ListByProject(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, cards)
	}
}

func handleCardRestack(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req idListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := card.Restack(db, c.Param("id"), req.IDs); err != nil {
			serverError(c, err)
			return
		}
		cards, err := card.ListByProject(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, cards)
	}
}

func handleCardCreate(db *gorm.DB, maxBytes int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req card.CreateOpts
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		req.MaxContentBytes = maxBytes
		fc, err := card.Create(db, req)
		if err != nil {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusCreated, fc)
	}
}

func handleCardGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		fc, err := card.Get(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		if fc == nil {
			notFound(c)
			return
		}
		c.JSON(http.StatusOK, fc)
	}
}

func handleCardUpdate(db *gorm.DB, maxBytes int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req card.UpdateOpts
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		req.MaxContentBytes = maxBytes
		fc, err := card.Update(db, c.Param("id"), req)
		if err != nil {
			badRequest(c, err)
			return
		}
		if fc == nil {
			notFound(c)
			return
		}
		c.JSON(http.StatusOK, fc)
	}
}

func handleCardDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := card.Delete(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		if !ok {
			notFound(c)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleCardFront(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		fc, err := card.Front(db, c.Param("id"))
		if err != nil {
			serverError(c, err)
			return
		}
		if fc == nil {
			notFound(c)
			return
		}
		c.JSON(http.StatusOK, fc)
	}
}

func handleSettingList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := settings.All(db)
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, all)
	}
}

func handleSettingGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		value, ok, err := settings.Get(db, key)
		if err != nil {
			serverError(c, err)
			return
		}
		if !ok {
			notFound(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
	}
}

func handleSettingPut(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Value string `json:"value"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		key := c.Param("key")
		if err := settings.Set(db, key, req.Value); err != nil {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
	}
}

func handleSettingDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := settings.Delete(db, c.Param("key"))
		if err != nil {
			serverError(c, err)
			return
		}
		if !ok {
			notFound(c)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleExport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// ?projects=id1,id2 narrows the export; absent means everything.
		var projectIDs []string
		if raw, ok := c.GetQuery("projects"); ok {
			projectIDs = []string{}
			if raw != "" {
				projectIDs = strings.Split(raw, ",")
			}
		}
		env, err := snapshot.Export(db, projectIDs)
		if err != nil {
			serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, env)
	}
}

func handleImport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := snapshot.Mode(c.DefaultQuery("mode", string(snapshot.Merge)))
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			badRequest(c, err)
			return
		}
		env, err := snapshot.Decode(data)
		if err != nil {
			badRequest(c, err)
			return
		}
		res, err := snapshot.Import(db, env, mode)
		if err != nil {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func handleChanges(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Watcher == nil {
			c.JSON(http.StatusOK, gin.H{"changed": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"changed": opts.Watcher.Changed()})
	}
}

func handleChangesAck(opts Opts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Watcher != nil {
			opts.Watcher.Reset()
		}
		c.Status(http.StatusNoContent)
	}
}
