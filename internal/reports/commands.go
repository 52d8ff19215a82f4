package reports

import (
	"fmt"
	"sort"
	"strings"
)

// Command names a report the platform can generate for a design branch.
type Command string

const (
	PricingQuotationJSON Command = "GetPricingQuotationDetailsJSON"
	PricingQuotationXlsx Command = "GetPricingQuotationXlsx"
	PricingQuotationPdf  Command = "GetPricingQuotationPdf"
	PricingQuotationCsv  Command = "GetPricingQuotationCsv"

	CabinetCompositeBoq   Command = "GetCabinetCompositeBoq"
	StandardWoodenRm      Command = "GetStandardWoodenRmOutput"
	StandardHardwareRm    Command = "GetStandardHardwareRmOutput"
	CutlistCsv            Command = "GetCutlistCsv"
	ManufacturingCutlist  Command = "GetManufacturingCutlistCsv"
	CurrentBoardTypeBoard Command = "GetCurrentBoardTypeCurrentBoard"
	CurrentBoardTypeAll   Command = "GetCurrentBoardTypeAllBoards"
	AllBoardTypeAllBoards Command = "GetAllBoardTypeAllBoards"
	BoardLayoutCount      Command = "GetBoardLayoutCount"
	BoardLayoutFinish     Command = "GetBoardLayoutFinishCount"

	FloorplanFloorViews Command = "GetFloorplanFloorViews"
	FloorplanRoomViews  Command = "GetFloorplanRoomViews"
	FulfillmentTags     Command = "GetFulfillmentTags"

	CNCOutputCix Command = "GetCNCMachineOutputCix"
	CNCOutputMpr Command = "GetCNCMachineOutputMpr"
	CNCOutputXcs Command = "GetCNCMachineOutputXcs"
	CNCOutputPdf Command = "GetCNCMachineOutputPdf"

	PresentationSheetsPdf Command = "GetAllPresentationSheetsPdf"
)

var knownCommands = map[Command]bool{
	PricingQuotationJSON:  true,
	PricingQuotationXlsx:  true,
	PricingQuotationPdf:   true,
	PricingQuotationCsv:   true,
	CabinetCompositeBoq:   true,
	StandardWoodenRm:      true,
	StandardHardwareRm:    true,
	CutlistCsv:            true,
	ManufacturingCutlist:  true,
	CurrentBoardTypeBoard: true,
	CurrentBoardTypeAll:   true,
	AllBoardTypeAllBoards: true,
	BoardLayoutCount:      true,
	BoardLayoutFinish:     true,
	FloorplanFloorViews:   true,
	FloorplanRoomViews:    true,
	FulfillmentTags:       true,
	CNCOutputCix:          true,
	CNCOutputMpr:          true,
	CNCOutputXcs:          true,
	CNCOutputPdf:          true,
	PresentationSheetsPdf: true,
}

// ParseCommand accepts a command name case-insensitively.
func ParseCommand(name string) (Command, error) {
	name = strings.TrimSpace(name)

	for command := range knownCommands {
		if strings.EqualFold(string(command), name) {
			return command, nil
		}
	}

	return "", fmt.Errorf("unknown report command %q", name)
}

// Commands lists every known command in name order.
func Commands() []Command {
	commands := make([]Command, 0, len(knownCommands))
	for command := range knownCommands {
		commands = append(commands, command)
	}

	sort.Slice(commands, func(i, j int) bool { return commands[i] < commands[j] })

	return commands
}
