package main

import "github.com/yorozuya-cybersecurity/yorosec-correlator/pkg/cli"

func main() {
	cli.Execute()
}
