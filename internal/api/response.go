package api

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// ErrorBody is the JSON error payload of the job API.
type ErrorBody struct {
	ErrorMsg string `json:"error,omitempty"`
}

// Response builds an API Gateway proxy response with CORS headers.
func Response(status int, body interface{}) (*events.APIGatewayProxyResponse, error) {
	resp := events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
	}
	if body != nil {
		stringBody, err := json.Marshal(body)
		if err != nil {
			return ErrorResponse(http.StatusInternalServerError, "can't marshal response")
		}
		resp.Body = string(stringBody)
	}
	return &resp, nil
}

// ErrorResponse builds an error response.
func ErrorResponse(status int, msg string) (*events.APIGatewayProxyResponse, error) {
	return Response(status, ErrorBody{ErrorMsg: msg})
}

// OptionsResponse answers CORS preflight requests.
func OptionsResponse() (*events.APIGatewayProxyResponse, error) {
	return &events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "POST, GET, OPTIONS, PUT, DELETE",
			"Access-Control-Allow-Headers": "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization",
		},
	}, nil
}
