package main

import (
	hadiths "github.com/kerbaras/hadiths/cmd/hadiths"
)

func main() {
	hadiths.Execute()
}
