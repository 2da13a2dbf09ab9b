package main

import "codegate/server"

func main() {
	server.Main()
}
