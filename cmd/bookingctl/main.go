package main

import "github.com/iliyamo/cinema-ticket-booking/internal/cli"

func main() {
	cli.Execute()
}
