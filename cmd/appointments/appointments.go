package appointments

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/simorq_mobile/config"
	"github.com/Alijeyrad/simorq_mobile/internal/app"
	"github.com/Alijeyrad/simorq_mobile/internal/service/appointment"
	"github.com/Alijeyrad/simorq_mobile/pkg/logs"
	"github.com/Alijeyrad/simorq_mobile/pkg/remote"
)

func NewAppointmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Appointment lifecycle commands",
	}

	cmd.AddCommand(newRequestCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newApproveCommand())
	cmd.AddCommand(newDeclineCommand())
	cmd.AddCommand(newCheckInCommand())

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logs.New(cfg))
	return cfg, nil
}

func newRequestCommand() *cobra.Command {
	var (
		doctorID     string
		dateStr      string
		reason       string
		grantHistory bool
	)

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a consultation with a doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			date, err := time.Parse(time.RFC3339, dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date (want RFC3339): %w", err)
			}

			return app.Run(cfg, func(ctrl appointment.Controller) error {
				appt, err := ctrl.Request(cmd.Context(), appointment.RequestInput{
					DoctorID:           doctorID,
					RequestedDate:      date,
					Reason:             reason,
					GrantHistoryAccess: grantHistory,
				})
				if err != nil {
					return err
				}
				fmt.Printf("appointment %s requested (status %s)\n", appt.ID, appt.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&doctorID, "doctor", "", "doctor ID")
	cmd.Flags().StringVar(&dateStr, "date", "", "requested date, RFC3339")
	cmd.Flags().StringVar(&reason, "reason", "", "reason for the visit")
	cmd.Flags().BoolVar(&grantHistory, "grant-history", false, "grant the doctor access to medical history")
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments, hiding past accepted ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return app.Run(cfg, func(ctrl appointment.Controller) error {
				var filter *remote.AppointmentStatus
				if status != "" {
					s := remote.AppointmentStatus(status)
					filter = &s
				}
				appts, err := ctrl.ListByStatus(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if len(appts) == 0 {
					fmt.Println("no appointments")
					return nil
				}
				for _, a := range appts {
					when := "unscheduled"
					if a.ScheduledAt != nil {
						when = a.ScheduledAt.Format(time.RFC3339)
					}
					fmt.Printf("%s  %-9s  %s  %s\n", a.ID, a.Status, when, a.Reason)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending|accepted|declined|completed|cancelled)")

	return cmd
}

func newApproveCommand() *cobra.Command {
	var (
		atStr string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "approve <appointment-id>",
		Short: "Approve a pending appointment and schedule it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			at, err := time.Parse(time.RFC3339, atStr)
			if err != nil {
				return fmt.Errorf("invalid --at (want RFC3339): %w", err)
			}

			return app.Run(cfg, func(ctrl appointment.Controller) error {
				var n *string
				if notes != "" {
					n = &notes
				}
				appt, err := ctrl.Approve(cmd.Context(), args[0], at, n)
				if err != nil {
					return err
				}
				link := "(meeting pending)"
				if appt.MeetingLink != nil {
					link = *appt.MeetingLink
				}
				fmt.Printf("appointment %s accepted, meeting: %s\n", appt.ID, link)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&atStr, "at", "", "scheduled time, RFC3339")
	cmd.Flags().StringVar(&notes, "notes", "", "notes for the patient")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func newDeclineCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "decline <appointment-id>",
		Short: "Decline a pending appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return app.Run(cfg, func(ctrl appointment.Controller) error {
				var r *string
				if reason != "" {
					r = &reason
				}
				appt, err := ctrl.Decline(cmd.Context(), args[0], r)
				if err != nil {
					return err
				}
				fmt.Printf("appointment %s declined\n", appt.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason shown to the patient")

	return cmd
}

func newCheckInCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin <appointment-id>",
		Short: "Check in to an upcoming consultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return app.Run(cfg, func(ctrl appointment.Controller, client *remote.Client) error {
				appt, err := client.GetAppointment(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				target, err := ctrl.CheckIn(cmd.Context(), appt)
				var tooEarly *appointment.TooEarlyError
				if errors.As(err, &tooEarly) {
					fmt.Printf("too early: consultation starts at %s\n",
						tooEarly.ScheduledAt.Format(time.RFC3339))
					return nil
				}
				if err != nil {
					return err
				}

				fmt.Printf("joining %s (password %s)\n", target.MeetingLink, target.MeetingPassword)
				return nil
			})
		},
	}

	return cmd
}
