package main

// General API documentation for swaggo. Regenerate docs/ with `swag init -g cmd/jobstreamd/docs.go`.
//
// @title           jobstreamd API
// @version         1.0
// @description     Job registry and job event streaming.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
