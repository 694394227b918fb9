package attendance

type CheckInRequest struct {
	Latitude    *float64 `json:"latitude" form:"latitude"`
	Longitude   *float64 `json:"longitude" form:"longitude"`
	ImageBase64 *string  `json:"image_base64" form:"image_base64"`
}

type CheckOutRequest struct {
	ImageBase64 *string `json:"image_base64" form:"image_base64"`
}
