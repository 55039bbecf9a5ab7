package handler

import (
	"bufio"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"fourwheeler-backend/internal/usecase/car"
	"fourwheeler-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const imagesField = "images"

type CarHandler struct {
	service *car.Service
}

func NewCarHandler(service *car.Service) *CarHandler {
	return &CarHandler{service: service}
}

func (h *CarHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/cars/listing", h.ListCars)
	router.GET("/cars/:id", h.GetCar)
}

func (h *CarHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	cars := router.Group("/cars")
	{
		cars.GET("", h.ListAllCars)
		cars.GET("/:id", h.GetAnyCar)
		cars.POST("/create", h.CreateCar)
		cars.PUT("/:id", h.UpdateCar)
		cars.DELETE("/:id", h.DeleteCar)
		cars.PATCH("/:id/restore", h.RestoreCar)
		cars.POST("/:id/images", h.UploadImages)
	}
}

func (h *CarHandler) ListCars(c *gin.Context) {
	h.list(c, h.service.ListCars)
}

func (h *CarHandler) ListAllCars(c *gin.Context) {
	h.list(c, h.service.ListAllCars)
}

func (h *CarHandler) list(c *gin.Context, fetch func(context.Context, *car.ListCarsQuery) (*car.CarListResponse, error)) {
	var query car.ListCarsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	res, err := fetch(c.Request.Context(), &query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cars retrieved successfully", res)
}

func (h *CarHandler) GetCar(c *gin.Context) {
	carID, ok := uuidParam(c, "id", "car")
	if !ok {
		return
	}

	res, err := h.service.GetCar(c.Request.Context(), carID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car retrieved successfully", res)
}

func (h *CarHandler) GetAnyCar(c *gin.Context) {
	carID, ok := uuidParam(c, "id", "car")
	if !ok {
		return
	}

	res, err := h.service.GetAnyCar(c.Request.Context(), carID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car retrieved successfully", res)
}

func (h *CarHandler) CreateCar(c *gin.Context) {
	var req car.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.service.CreateCar(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Car created successfully", res)
}

func (h *CarHandler) UpdateCar(c *gin.Context) {
	carID, ok := uuidParam(c, "id", "car")
	if !ok {
		return
	}

	var req car.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.service.UpdateCar(c.Request.Context(), carID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car updated successfully", res)
}

func (h *CarHandler) DeleteCar(c *gin.Context) {
	carID, ok := uuidParam(c, "id", "car")
	if !ok {
		return
	}

	if err := h.service.DeleteCar(c.Request.Context(), carID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car deleted successfully", nil)
}

func (h *CarHandler) RestoreCar(c *gin.Context) {
	carID, ok := uuidParam(c, "id", "car")
	if !ok {
		return
	}

	res, err := h.service.RestoreCar(c.Request.Context(), carID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car restored successfully", res)
}

// UploadImages accepts multipart files under "images". The content type is
// sniffed from the file itself.
func (h *CarHandler) UploadImages(c *gin.Context) {
	carID, ok := uuidParam(c, "id", "car")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	headers := form.File[imagesField]

	files := make([]car.ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := openImage(fh)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Unable to read uploaded file")
			return
		}
		defer f.close()
		files = append(files, f.ImageFile)
	}

	res, err := h.service.UploadImages(c.Request.Context(), carID, files)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Images uploaded successfully", res)
}

type openedImage struct {
	car.ImageFile
	close func() error
}

func openImage(fh *multipart.FileHeader) (*openedImage, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(file, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		_ = file.Close()
		return nil, err
	}

	return &openedImage{
		ImageFile: car.ImageFile{
			Filename:    fh.Filename,
			ContentType: http.DetectContentType(head),
			Size:        fh.Size,
			Body:        br,
		},
		close: file.Close,
	}, nil
}
