package mediapipe

// LandmarksRequest for POST /landmarks
type LandmarksRequest struct {
	Img             string `json:"img"` // base64 encoded image
	MaxFaces        int    `json:"max_faces"`
	RefineLandmarks bool   `json:"refine_landmarks"`
}

// LandmarksResponse from POST /landmarks
type LandmarksResponse struct {
	Faces []FaceMesh `json:"faces"`
}

// FaceMesh holds one face's landmarks normalized to the image size
type FaceMesh struct {
	Landmarks []Landmark `json:"landmarks"`
}

type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}
