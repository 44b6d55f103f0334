package v1

import (
	"net/http"

	"muzza-postulaciones/pkg/pixel"

	"github.com/gin-gonic/gin"
)

const landingPage = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Postula a Muzza</title>
</head>
<body>
<main id="root" data-api="/v1/applications">
<h1>Trabaja con nosotros</h1>
<p>Completa tu postulación para el puesto de atención y ventas.</p>
</main>
</body>
</html>
`

type LandingHandler struct {
	pixel *pixel.Loader
}

// NewLandingHandler serves the page shell that hosts the form client
func NewLandingHandler(r gin.IRoutes, loader *pixel.Loader) {
	handler := &LandingHandler{pixel: loader}
	r.GET("/", handler.Index)
}

// Index serves the HTML shell, with the analytics pixel when configured
func (h *LandingHandler) Index(c *gin.Context) {
	page := []byte(landingPage)
	if h.pixel != nil {
		page = h.pixel.Inject(page)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
