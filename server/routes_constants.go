package server

const (
	RouteUpload       = "/upload"
	RouteGallery      = "/gallery"
	RouteCallback     = "/oauth2/callback"
	RouteLogout       = "/logout"
	RouteInteractions = "/interactions"
	RouteAssets       = "/assets"
)
