package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// Frame is a catalog entry
type Frame struct {
	ID             string   `json:"id" example:"classic-round"`
	Name           string   `json:"name" example:"Classic Round"`
	Src            string   `json:"src" example:"/glass1.png"`
	Styles         []string `json:"styles" example:"round,metal"`
	RecommendedFor []string `json:"recommendedFor" example:"square,oblong"`
	Reasoning      string   `json:"reasoning,omitempty" example:"Curved rims soften angular jawlines"`
	CreatedAt      string   `json:"createdAt,omitempty" example:"2025-01-01T00:00:00Z"`
}

type CatalogResponse struct {
	Items []Frame `json:"items"`
}

type SaveCatalogRequest struct {
	Items []Frame `json:"items"`
}

type SaveCatalogResponse struct {
	Saved int `json:"saved" example:"3"`
}

type DeleteFrameResponse struct {
	Deleted int64 `json:"deleted" example:"1"`
}

type FrameResponse struct {
	Item Frame `json:"item"`
}

type AnalyzeFrameRequest struct {
	ImageDataURL string `json:"imageDataUrl" example:"data:image/png;base64,iVBORw0KGgo..."`
}

type FrameAnalysisResponse struct {
	RecommendedFor []string `json:"recommendedFor" example:"round,oval"`
	Styles         []string `json:"styles" example:"rectangular,acetate"`
	Reasoning      string   `json:"reasoning" example:"Angular lines add definition to soft curves"`
}

// FaceMetrics are the pixel measurements behind a classification
type FaceMetrics struct {
	FaceLength     float64 `json:"faceLength" example:"212.4"`
	OverallWidth   float64 `json:"overallWidth" example:"168.0"`
	ForeheadWidth  float64 `json:"foreheadWidth" example:"140.8"`
	CheekboneWidth float64 `json:"cheekboneWidth" example:"160.2"`
	JawWidth       float64 `json:"jawWidth" example:"131.5"`
}

type Classification struct {
	Shape   string             `json:"shape" example:"oval"`
	Metrics *FaceMetrics       `json:"metrics"`
	Scores  map[string]float64 `json:"scores"`
}

type AnalyzeResponse struct {
	Classification Classification `json:"classification"`
	Shape          string         `json:"shape" example:"oval"`
	ImageWidth     int            `json:"imageWidth" example:"640"`
	ImageHeight    int            `json:"imageHeight" example:"480"`
	Suggestions    []Frame        `json:"suggestions"`
	Selected       *Frame         `json:"selected"`
}

type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

func adminErrors(extra ...response.Response) []response.Response {
	errs := []response.Response{
		response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing admin key"}, "401", "Unauthorized"),
		response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
	}
	return append(extra, errs...)
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Glasses Try-On API",
		Version:     "v1.0.0",
		Description: "Face shape classification, frame suggestions and virtual glasses try-on",
		Host:        "localhost:4000",
		Path:        "/api",
	})

	multipart := []mime.MIME{mime.MIME("multipart/form-data")}
	adminKey := []map[string][]string{{"AdminKeyAuth": {}}}

	endpoints := []*endpoint.EndPoint{
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe"),
			endpoint.WithDescription("Pings the database"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{Status: "ready"}, "200", "Ready"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "unavailable"}, "503", "Database unreachable"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/catalog",
			endpoint.WithTags("Catalog"),
			endpoint.WithSummary("List frames"),
			endpoint.WithDescription("Returns stored frames newest first. Falls back to the built-in catalog when the store cannot be read."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CatalogResponse{}, "200", "Catalog"),
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/catalog",
			endpoint.WithTags("Catalog"),
			endpoint.WithSummary("Save frames"),
			endpoint.WithDescription("Upserts frames by id. Items without id, name or src are ignored."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SaveCatalogResponse{}, "200", "Frames saved"),
			}),
			endpoint.WithErrors(adminErrors(
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "items must be an array"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			)),
			endpoint.WithSecurity(adminKey),
		),

		endpoint.New(
			endpoint.DELETE,
			"/catalog/{id}",
			endpoint.WithTags("Catalog"),
			endpoint.WithSummary("Delete a frame"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Frame id")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DeleteFrameResponse{}, "200", "Frame deleted"),
			}),
			endpoint.WithErrors(adminErrors(
				response.New(ErrorResponse{Code: "FRAME_NOT_FOUND", Message: "Frame not found"}, "404", "Not Found"),
			)),
			endpoint.WithSecurity(adminKey),
		),

		endpoint.New(
			endpoint.POST,
			"/catalog/import",
			endpoint.WithTags("Catalog"),
			endpoint.WithSummary("Import frame images"),
			endpoint.WithDescription("Accepts one or more files in images or images[]. Each image is downscaled, stored as a new frame and tagged by the vision provider."),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CatalogResponse{}, "201", "Frames created"),
			}),
			endpoint.WithErrors(adminErrors(
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "images are required"}, "422", "Unprocessable Entity"),
			)),
			endpoint.WithSecurity(adminKey),
		),

		endpoint.New(
			endpoint.POST,
			"/catalog/{id}/tag",
			endpoint.WithTags("Catalog"),
			endpoint.WithSummary("Re-tag a frame"),
			endpoint.WithDescription("Runs the vision provider on the frame image and stores the suggested shapes and styles."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Frame id")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FrameResponse{}, "200", "Frame tagged"),
			}),
			endpoint.WithErrors(adminErrors(
				response.New(ErrorResponse{Code: "FRAME_NOT_FOUND", Message: "Frame not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "ASSET_UNAVAILABLE", Message: "Frame image could not be loaded"}, "502", "Bad Gateway"),
				response.New(ErrorResponse{Code: "VISION_UNAVAILABLE", Message: "Frame analysis service is unavailable"}, "503", "Service Unavailable"),
			)),
			endpoint.WithSecurity(adminKey),
		),

		endpoint.New(
			endpoint.POST,
			"/vision/frame",
			endpoint.WithTags("Vision"),
			endpoint.WithSummary("Analyze a frame image"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FrameAnalysisResponse{}, "200", "Analysis"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "imageDataUrl is required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "VISION_MALFORMED", Message: "Frame analysis returned an unusable answer"}, "502", "Bad Gateway"),
				response.New(ErrorResponse{Code: "VISION_UNAVAILABLE", Message: "Frame analysis service is unavailable"}, "503", "Service Unavailable"),
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/tryon/analyze",
			endpoint.WithTags("Try-On"),
			endpoint.WithSummary("Classify a face and suggest frames"),
			endpoint.WithDescription("Form fields: image (file), shape (optional override), only_recommended (bool), selected_id (current selection)."),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AnalyzeResponse{}, "200", "Classification and suggestions"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "image file is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/tryon/render",
			endpoint.WithTags("Try-On"),
			endpoint.WithSummary("Render glasses onto a photo"),
			endpoint.WithDescription("Form fields: image (file), frame_id. Returns a PNG. Placement is reported in X-Overlay-Center-X, X-Overlay-Center-Y, X-Overlay-Rotation, X-Overlay-Width and X-Overlay-Height; these are absent when the eyes could not be located."),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce([]mime.MIME{mime.MIME("image/png")}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "FRAME_NOT_FOUND", Message: "Frame not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "ASSET_UNAVAILABLE", Message: "Frame image could not be loaded"}, "502", "Bad Gateway"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
