package user

type EnrollFaceRequest struct {
	ImageBase64 *string `json:"image_base64" form:"image_base64"`
}
