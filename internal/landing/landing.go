package landing

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var content embed.FS

// Page 返回落地页 HTML
func Page() []byte {
	data, err := content.ReadFile("static/index.html")
	if err != nil {
		return nil
	}
	return data
}

// Handler 输出营销落地页
func Handler() gin.HandlerFunc {
	page := Page()
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=300")
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}
