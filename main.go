// Package main book rental API.
//
// @title           Book Rental Management API
// @version         1.0
// @description     Users, book catalog and rental ledger with late fees.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import "bookrent/cmd"

func main() {
	cmd.Execute()
}
