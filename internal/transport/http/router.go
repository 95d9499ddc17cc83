package httpserver

import (
	"github.com/labstack/echo/v4"

	coreauth "github.com/tedas/villa_api/internal/auth"
	"github.com/tedas/villa_api/internal/handlers"
	authhdl "github.com/tedas/villa_api/internal/handlers/auth"
	authmw "github.com/tedas/villa_api/internal/middleware/auth"
)

type Deps struct {
	Tokens             *coreauth.TokenService
	AuthHandler        *authhdl.AuthHandler
	VillaHandler       *handlers.VillaHandler
	VillaNumberHandler *handlers.VillaNumberHandler
	UploadHandler      *handlers.UploadHandler
	SearchHandler      *handlers.SearchHandler
	ImageDir           string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.Static("/images", d.ImageDir)

	requireLogin := authmw.RequireLogin(d.Tokens)
	adminOnly := authmw.AdminOnly(d.Tokens)

	v1 := e.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/register", d.AuthHandler.Register)
	users.POST("/login", d.AuthHandler.Login)
	users.POST("/refresh", d.AuthHandler.Refresh)
	users.POST("/revoke", d.AuthHandler.Revoke)

	villas := v1.Group("/villas", requireLogin)
	villas.GET("", d.VillaHandler.GetVillas)
	villas.GET("/:id", d.VillaHandler.GetVilla)

	villasAdmin := v1.Group("/villas", adminOnly)
	villasAdmin.POST("", d.VillaHandler.CreateVilla)
	villasAdmin.PATCH("/:id", d.VillaHandler.PatchVilla)
	villasAdmin.DELETE("/:id", d.VillaHandler.DeleteVilla)
	villasAdmin.POST("/:id/image", d.UploadHandler.UploadVillaImage)

	numbers := v1.Group("/villa-numbers", requireLogin)
	numbers.GET("", d.VillaNumberHandler.GetVillaNumbers)
	numbers.GET("/:no", d.VillaNumberHandler.GetVillaNumber)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search, requireLogin)
	}

	// v2 adds write access to villa numbers with villa-existence checks.
	v2 := e.Group("/api/v2")

	numbersV2 := v2.Group("/villa-numbers", requireLogin)
	numbersV2.GET("", d.VillaNumberHandler.GetVillaNumbers)
	numbersV2.GET("/:no", d.VillaNumberHandler.GetVillaNumber)

	numbersV2Admin := v2.Group("/villa-numbers", adminOnly)
	numbersV2Admin.POST("", d.VillaNumberHandler.CreateVillaNumber)
	numbersV2Admin.PATCH("/:no", d.VillaNumberHandler.PatchVillaNumber)
	numbersV2Admin.DELETE("/:no", d.VillaNumberHandler.DeleteVillaNumber)
}
