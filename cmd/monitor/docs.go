package main

//go:generate swag init -g cmd/monitor/main.go -o docs

// @title           Tool Directory Monitor API
// @version         0.1.0
// @description     Health reconciliation, badge detection, catalog export, and repo metadata refresh controls.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
