package dto

// AppName /info 返回的服务名称
const AppName = "Layersense: an AI-powered manim backend."

// InfoResponse 服务信息
type InfoResponse struct {
	AppName string `json:"app_name"`
}
