package main

import "github.com/abn/aiographql-client/cmd"

func main() {
	cmd.Execute()
}
