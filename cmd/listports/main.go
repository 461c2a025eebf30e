package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/robotalks/sendbin/pkg/ports"
)

func main() {
	flag.Parse()
	infoList, err := ports.List()
	if err != nil {
		log.Fatalln(err)
	}
	for _, info := range infoList {
		fmt.Println(ports.Format(info))
	}
}
