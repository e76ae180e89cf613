package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/yatrik/yatra/internal/visit"
	"github.com/yatrik/yatra/internal/wizard"
)

var (
	mantraOptions       = mantraLabels()
	purposeOptions      = purposeLabels()
	relationshipOptions = relationshipLabels()
)

func mantraLabels() []string {
	out := make([]string, len(visit.ValidMantras))
	for i, m := range visit.ValidMantras {
		out[i] = string(m)
	}
	return out
}

func purposeLabels() []string {
	out := make([]string, len(visit.ValidPurposes))
	for i, p := range visit.ValidPurposes {
		out[i] = string(p)
	}
	return out
}

func relationshipLabels() []string {
	out := make([]string, len(visit.ValidRelationships))
	for i, r := range visit.ValidRelationships {
		out[i] = string(r)
	}
	return out
}

// errCanceled is returned when the user quits the wizard.
var errCanceled = fmt.Errorf("canceled")

// runWizard drives the three-step entry workflow over stdin prompts
// until the visit is submitted or the user quits.
func runWizard(reader *bufio.Reader, w *wizard.Wizard, s wizard.Submitter) error {
	for !w.Done() {
		var err error
		switch w.Step() {
		case wizard.StepVisitType:
			err = promptVisitType(reader, w, s)
		case wizard.StepDetails:
			err = promptDetails(reader, w, s)
		case wizard.StepFamilyOrReview:
			if w.VisitType() == visit.Family {
				err = promptFamily(reader, w, s)
			} else {
				err = promptReview(reader, w, s)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func promptVisitType(reader *bufio.Reader, w *wizard.Wizard, s wizard.Submitter) error {
	fmt.Println("\nStep 1 of 3: Visit Type")
	choice, err := promptChoice(reader, "Who visited", []string{"Individual", "Family"}, w.VisitType().Label())
	if err != nil {
		return err
	}
	if strings.EqualFold(choice, "Family") {
		w.SetVisitType(visit.Family)
	} else {
		w.SetVisitType(visit.Individual)
	}
	_, err = w.Next(s)
	return err
}

func promptDetails(reader *bufio.Reader, w *wizard.Wizard, s wizard.Submitter) error {
	fmt.Println("\nStep 2 of 3: Visit Details")
	d := w.Details()

	place, err := prompt(reader, "Place", d.Place)
	if err != nil {
		return err
	}
	w.SetDetail(visit.FieldPlace, place)

	date, err := prompt(reader, "Date (YYYY-MM-DD)", d.Date)
	if err != nil {
		return err
	}
	w.SetDetail(visit.FieldDate, date)

	mantra, err := promptChoice(reader, "Mantra", mantraOptions, d.Mantra)
	if err != nil {
		return err
	}
	w.SetDetail(visit.FieldMantra, mantra)

	purpose, err := promptChoice(reader, "Purpose", purposeOptions, d.Purpose)
	if err != nil {
		return err
	}
	w.SetDetail(visit.FieldPurpose, purpose)

	if purpose == string(visit.PurposeOther) {
		custom, err := prompt(reader, "Custom purpose", w.Details().CustomPurpose)
		if err != nil {
			return err
		}
		w.SetDetail(visit.FieldCustomPurpose, custom)
	}

	submitted, err := w.Next(s)
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		return nil
	}
	if submitted {
		fmt.Println("✓ Visit recorded. Sat Saheb!")
		return nil
	}
	printErrors(w.Errors())
	return nil
}

func promptFamily(reader *bufio.Reader, w *wizard.Wizard, s wizard.Submitter) error {
	fmt.Println("\nStep 3 of 3: Family Members")
	for {
		printMembers(w)

		action, err := prompt(reader, "(a)dd, (e)dit <n>, (r)emove <n>, (b)ack, (s)ubmit, (q)uit", "")
		if err != nil {
			return err
		}
		verb, arg := splitAction(action)

		switch verb {
		case "a", "add":
			w.AddMember()
			if err := editMember(reader, w, len(w.Members())-1); err != nil {
				return err
			}
		case "e", "edit":
			n, err := memberIndex(arg, len(w.Members()))
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := editMember(reader, w, n); err != nil {
				return err
			}
		case "r", "remove":
			n, err := memberIndex(arg, len(w.Members()))
			if err != nil {
				fmt.Println(err)
				continue
			}
			if !w.RemoveMember(n) {
				fmt.Println("At least one family member is required.")
			}
		case "b", "back":
			w.Back()
			return nil
		case "s", "submit":
			submitted, err := w.Next(s)
			if err != nil {
				fmt.Printf("✗ %v\n", err)
				continue
			}
			if submitted {
				fmt.Println("✓ Visit recorded. Sat Saheb!")
				return nil
			}
			printErrors(w.Errors())
		case "q", "quit":
			return errCanceled
		default:
			fmt.Println("Unknown action.")
		}
	}
}

func promptReview(reader *bufio.Reader, w *wizard.Wizard, s wizard.Submitter) error {
	fmt.Println("\nStep 3 of 3: Review")
	d := w.Details()
	fmt.Printf("  Place:    %s\n", d.Place)
	fmt.Printf("  Date:     %s\n", d.Date)
	fmt.Printf("  Type:     %s\n", w.VisitType().Label())
	fmt.Printf("  Mantra:   %s\n", d.Mantra)
	purpose := d.Purpose
	if purpose == string(visit.PurposeOther) {
		purpose = d.CustomPurpose
	}
	fmt.Printf("  Purpose:  %s\n", purpose)

	ok, err := promptYesNo(reader, "Submit this visit?")
	if err != nil {
		return err
	}
	if !ok {
		w.Back()
		return nil
	}

	submitted, err := w.Next(s)
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		return nil
	}
	if submitted {
		fmt.Println("✓ Visit recorded. Sat Saheb!")
	} else {
		printErrors(w.Errors())
		w.GoTo(wizard.StepDetails)
	}
	return nil
}

// editMember prompts for every field of one member row.
func editMember(reader *bufio.Reader, w *wizard.Wizard, index int) error {
	m := w.Members()[index]
	fmt.Printf("Member %d:\n", index+1)

	name, err := prompt(reader, "  Name", m.Name)
	if err != nil {
		return err
	}
	w.SetMemberField(index, "name", name)

	rel, err := promptChoice(reader, "  Relationship", relationshipOptions, m.Relationship)
	if err != nil {
		return err
	}
	w.SetMemberField(index, "relationship", rel)

	age, err := prompt(reader, "  Age (optional)", m.Age)
	if err != nil {
		return err
	}
	w.SetMemberField(index, "age", age)

	mantra, err := prompt(reader, "  Mantra (optional)", m.Mantra)
	if err != nil {
		return err
	}
	w.SetMemberField(index, "mantra", mantra)

	return nil
}

func printMembers(w *wizard.Wizard) {
	errs := w.Errors()
	for i, m := range w.Members() {
		name := m.Name
		if name == "" {
			name = "(unnamed)"
		}
		line := fmt.Sprintf("  %d. %s - %s", i+1, name, m.Relationship)
		if m.Age != "" {
			line += fmt.Sprintf(", age %s", m.Age)
		}
		if m.Mantra != "" {
			line += fmt.Sprintf(" (%s)", m.Mantra)
		}
		fmt.Println(line)
		for _, field := range []string{"name", "relationship"} {
			if msg, ok := errs[visit.MemberFieldKey(i, field)]; ok {
				fmt.Printf("     ! %s\n", msg)
			}
		}
	}
}

func printErrors(errs map[string]string) {
	if len(errs) == 0 {
		return
	}
	fmt.Println("Please fix the following:")
	for _, msg := range errs {
		fmt.Printf("  ! %s\n", msg)
	}
}

func splitAction(action string) (verb, arg string) {
	parts := strings.Fields(strings.ToLower(action))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// memberIndex parses a 1-based member number into a slice index.
func memberIndex(arg string, count int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > count {
		return 0, fmt.Errorf("expected a member number between 1 and %d", count)
	}
	return n - 1, nil
}
