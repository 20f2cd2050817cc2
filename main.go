package main

import "github.com/Defimaso/Diario362-sub001/cmd"

func main() {
	cmd.Execute()
}
