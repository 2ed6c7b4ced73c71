package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/internal/domain/dto"
)

// SiteInfo is the site name and Open Graph metadata the front-end reads
// when its build-time values are missing.
type SiteInfo struct {
	Title         string
	OGImage       string
	OGDescription string
	OGURL         string
	OGLogo        string
	OGKeywords    string
}

// SiteRoutes registers the site metadata endpoints of the legacy API.
type SiteRoutes struct {
	info SiteInfo
}

// NewSiteRoutes creates site routes serving info.
func NewSiteRoutes(info SiteInfo) *SiteRoutes {
	return &SiteRoutes{info: info}
}

// RegisterRoutes implements RouteGroup.
func (r *SiteRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.GET("/getTitleName", r.GetTitleName)
	rg.GET("/getOGinfo", r.GetOGInfo)
}

// GetTitleName handles GET /api/getTitleName requests.
//
// @Summary      Site title (legacy)
// @Description  Returns the configured site name (NAV_NAME). An empty name leaves the front-end default in place.
// @Tags         Legacy
// @Produce      json
// @Success      200 {object} dto.LegacyTitleResponse "Site title"
// @Router       /api/getTitleName [get]
func (r *SiteRoutes) GetTitleName(c *gin.Context) {
	c.JSON(http.StatusOK, dto.LegacyTitleResponse{TitleName: r.info.Title})
}

// GetOGInfo handles GET /api/getOGinfo requests.
//
// @Summary      Open Graph metadata (legacy)
// @Description  Returns the configured Open Graph values (OG_*). The title falls back to the site name; unset values are omitted.
// @Tags         Legacy
// @Produce      json
// @Success      200 {object} dto.LegacyOGInfoResponse "Open Graph metadata"
// @Router       /api/getOGinfo [get]
func (r *SiteRoutes) GetOGInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.LegacyOGInfoResponse{
		OGTitle:    r.info.Title,
		OGImg:      r.info.OGImage,
		OGDesc:     r.info.OGDescription,
		OGURL:      r.info.OGURL,
		OGLogo:     r.info.OGLogo,
		OGKeywords: r.info.OGKeywords,
	})
}
