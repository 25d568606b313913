package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// RegisterDocsRoutes exposes the registered route table for introspection
func RegisterDocsRoutes(router *gin.Engine) {
	router.GET("/docs/routes", func(c *gin.Context) {
		routes := router.Routes()
		out := make([]routeInfo, 0, len(routes))
		for _, r := range routes {
			out = append(out, routeInfo{Method: r.Method, Path: r.Path})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Path == out[j].Path {
				return out[i].Method < out[j].Method
			}
			return out[i].Path < out[j].Path
		})
		c.JSON(http.StatusOK, gin.H{"routes": out})
	})
}
