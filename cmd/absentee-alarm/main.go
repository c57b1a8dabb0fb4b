package main

import "github.com/oshokin/absentee-alarm/cmd/absentee-alarm/cmd"

func main() {
	cmd.Execute()
}
