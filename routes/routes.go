package routes

import (
	"github.com/gin-gonic/gin"

	"pincrime/config"
	"pincrime/dataset"
	"pincrime/db"
	"pincrime/handlers"
)

func SetupRouter(ds *dataset.Dataset, store *db.Store, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to the PinCrime dashboard API!",
		})
	})

	// api routes, with the dataset and upload store injected
	api := r.Group("/api/pincrime")
	{
		api.GET("/dashboard", func(c *gin.Context) {
			handlers.GetDashboard(c, ds, cfg.Analysis.TopN)
		})
		api.GET("/filters", func(c *gin.Context) {
			handlers.GetFilterOptions(c, ds)
		})
		api.POST("/upload", func(c *gin.Context) {
			handlers.UploadFile(c, store, cfg.Uploads.Dir)
		})
		api.GET("/uploads", func(c *gin.Context) {
			handlers.ListUploads(c, store)
		})
	}

	return r
}
